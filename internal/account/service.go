package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"medrekk/internal/account/domain"
	"medrekk/internal/account/repository"
	auditdomain "medrekk/internal/audit/domain"
	memberdomain "medrekk/internal/member/domain"
	"medrekk/internal/security"
)

// Sentinel errors for account registration.
var (
	// ErrNameTaken is returned when an account with the same name or derived
	// subdomain already exists.
	ErrNameTaken = errors.New("account name already taken")
	// ErrInvalidName is returned when the account name is empty after
	// whitespace normalization.
	ErrInvalidName = errors.New("invalid account name")
)

// AuditLogger matches audit.AuditLogger; nil disables auditing.
type AuditLogger interface {
	LogEvent(ctx context.Context, accountID, memberID, action, resource, metadata string)
}

// Service implements account registration and lookups.
type Service struct {
	repo   repository.Repository
	hasher *security.Hasher
	audit  AuditLogger
}

// NewService returns an account service backed by repo. audit may be nil.
func NewService(repo repository.Repository, hasher *security.Hasher, audit AuditLogger) *Service {
	return &Service{repo: repo, hasher: hasher, audit: audit}
}

// Create registers a new account together with its owner member and the
// owner's roster entry, all in one transaction. The subdomain is derived from
// the normalized name once, at creation, and never changes afterwards.
func (s *Service) Create(ctx context.Context, name, ownerUsername, ownerPassword string) (*domain.Account, error) {
	name = domain.NormalizeName(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	hash, err := s.hasher.Hash([]byte(ownerPassword))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	accountID := uuid.New().String()
	owner := &memberdomain.Member{
		ID:           uuid.New().String(),
		AccountID:    accountID,
		Username:     ownerUsername,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	a := &domain.Account{
		ID:          accountID,
		Name:        name,
		Subdomain:   domain.DeriveSubdomain(name),
		OwnerID:     owner.ID,
		Status:      domain.AccountStatusTrial,
		TrialEndsAt: now.Add(domain.TrialPeriod),
		CreatedAt:   now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateWithOwner(ctx, a, owner); err != nil {
		if errors.Is(err, repository.ErrDuplicateAccount) {
			return nil, fmt.Errorf("%w: %s", ErrNameTaken, name)
		}
		return nil, err
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, a.ID, owner.ID, auditdomain.ActionAccountCreate, "account", a.Subdomain)
	}
	return a, nil
}

// GetByID returns the account, or nil if it does not exist.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return s.repo.GetByID(ctx, id)
}

// ListMemberIDs returns the ids of all roster members of the account.
func (s *Service) ListMemberIDs(ctx context.Context, accountID string) ([]string, error) {
	return s.repo.ListMemberIDs(ctx, accountID)
}
