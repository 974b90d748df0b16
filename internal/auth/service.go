// Package auth implements credential authentication, member registration, and
// the login flow that ties authentication, tenant resolution, and token
// issuance together.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	auditdomain "medrekk/internal/audit/domain"
	memberdomain "medrekk/internal/member/domain"
	memberrepo "medrekk/internal/member/repository"
	"medrekk/internal/security"
	"medrekk/internal/tenant"
)

// Sentinel errors for the auth service; the HTTP boundary maps them to status codes.
var (
	// ErrInvalidCredentials covers unknown username, wrong password, and
	// deactivated member alike, so responses never reveal which it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned when registering a username that exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrMemberNotFound is returned when the member does not exist under the
	// account, including when their home account is some other account.
	ErrMemberNotFound = errors.New("member not found")
)

// MemberRepo is the minimal member repository needed by the auth service.
type MemberRepo interface {
	GetByID(ctx context.Context, id string) (*memberdomain.Member, error)
	GetByUsername(ctx context.Context, username string) (*memberdomain.Member, error)
	Create(ctx context.Context, m *memberdomain.Member) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) error
}

// Roster adds members to an account's roster after registration.
type Roster interface {
	AddMember(ctx context.Context, accountID, memberID string) error
}

// LoginResult holds the outcome of a successful login.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	MemberID    string
	AccountID   string
}

// Service implements password authentication, member registration, login, and logout.
type Service struct {
	members  MemberRepo
	roster   Roster
	hasher   *security.Hasher
	tokens   *security.TokenProvider
	resolver *tenant.Resolver
	audit    AuditLogger
}

// AuditLogger matches audit.AuditLogger; nil disables auditing.
type AuditLogger interface {
	LogEvent(ctx context.Context, accountID, memberID, action, resource, metadata string)
}

// NewService returns an auth service. audit may be nil.
func NewService(members MemberRepo, roster Roster, hasher *security.Hasher, tokens *security.TokenProvider, resolver *tenant.Resolver, audit AuditLogger) *Service {
	return &Service{members: members, roster: roster, hasher: hasher, tokens: tokens, resolver: resolver, audit: audit}
}

// Authenticate verifies the presented credentials and returns the member.
// All failure modes return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*memberdomain.Member, error) {
	m, err := s.members.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(m.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !m.Active {
		return nil, ErrInvalidCredentials
	}
	return m, nil
}

// Login authenticates the credentials, resolves the active account from host,
// and issues an access token bound to (member, account).
func (s *Service) Login(ctx context.Context, host, username, password string) (*LoginResult, error) {
	m, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.logEvent(ctx, "", "", auditdomain.ActionLoginFailure, "auth", username)
		}
		return nil, err
	}

	account, err := s.resolver.Resolve(ctx, host, m.ID, m.AccountID)
	if err != nil {
		s.logEvent(ctx, "", m.ID, auditdomain.ActionLoginFailure, "auth", err.Error())
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(ctx, m.ID, account.ID)
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, account.ID, m.ID, auditdomain.ActionLoginSuccess, "auth", "")
	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		MemberID:    m.ID,
		AccountID:   account.ID,
	}, nil
}

// Logout deletes the token's revocation entry, invalidating it immediately
// regardless of its remaining lifetime. memberID and accountID identify the
// caller, already verified by the middleware before the entry is deleted.
func (s *Service) Logout(ctx context.Context, memberID, accountID, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return err
	}
	s.logEvent(ctx, accountID, memberID, auditdomain.ActionLogout, "auth", "")
	return nil
}

// RegisterMember creates a member in the account with a freshly salted hash
// and puts them on the account's roster. A duplicate username is a conflict,
// distinct from any authentication failure.
func (s *Service) RegisterMember(ctx context.Context, accountID, username, password string) (*memberdomain.Member, error) {
	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	m := &memberdomain.Member{
		ID:           uuid.New().String(),
		AccountID:    accountID,
		Username:     username,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.members.Create(ctx, m); err != nil {
		if errors.Is(err, memberrepo.ErrDuplicateUsername) {
			return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
		}
		return nil, err
	}
	if s.roster != nil {
		if err := s.roster.AddMember(ctx, accountID, m.ID); err != nil {
			return nil, err
		}
	}
	s.logEvent(ctx, accountID, m.ID, auditdomain.ActionRegister, "member", username)
	return m, nil
}

// GetMember returns the member whose home account is accountID, or
// ErrMemberNotFound.
func (s *Service) GetMember(ctx context.Context, accountID, memberID string) (*memberdomain.Member, error) {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.AccountID != accountID {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

// ChangePassword replaces the member's password hash with a freshly salted
// one. Outstanding tokens are untouched; they lapse with their revocation
// entries.
func (s *Service) ChangePassword(ctx context.Context, accountID, memberID, newPassword string) error {
	m, err := s.GetMember(ctx, accountID, memberID)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		return err
	}
	if err := s.members.UpdatePasswordHash(ctx, m.ID, hash); err != nil {
		return err
	}
	s.logEvent(ctx, accountID, m.ID, auditdomain.ActionPasswordChange, "member", "")
	return nil
}

// DeactivateMember clears the member's active flag so they can no longer
// authenticate. Their outstanding tokens lapse with their revocation entries.
func (s *Service) DeactivateMember(ctx context.Context, accountID, memberID string) error {
	m, err := s.GetMember(ctx, accountID, memberID)
	if err != nil {
		return err
	}
	if err := s.members.SetActive(ctx, m.ID, false); err != nil {
		return err
	}
	s.logEvent(ctx, accountID, m.ID, auditdomain.ActionMemberDeactivate, "member", m.Username)
	return nil
}

func (s *Service) logEvent(ctx context.Context, accountID, memberID, action, resource, metadata string) {
	if s.audit != nil {
		s.audit.LogEvent(ctx, accountID, memberID, action, resource, metadata)
	}
}
