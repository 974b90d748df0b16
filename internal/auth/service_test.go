package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	accountdomain "medrekk/internal/account/domain"
	memberdomain "medrekk/internal/member/domain"
	memberrepo "medrekk/internal/member/repository"
	"medrekk/internal/revocation"
	"medrekk/internal/security"
	"medrekk/internal/tenant"
)

type memMemberRepo struct {
	byUsername map[string]*memberdomain.Member
	getErr     error
}

func (r *memMemberRepo) GetByID(_ context.Context, id string) (*memberdomain.Member, error) {
	for _, m := range r.byUsername {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMemberRepo) GetByUsername(_ context.Context, username string) (*memberdomain.Member, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.byUsername[username], nil
}

func (r *memMemberRepo) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	for _, m := range r.byUsername {
		if m.ID == id {
			m.PasswordHash = passwordHash
			return nil
		}
	}
	return errors.New("no such member")
}

func (r *memMemberRepo) SetActive(_ context.Context, id string, active bool) error {
	for _, m := range r.byUsername {
		if m.ID == id {
			m.Active = active
			return nil
		}
	}
	return errors.New("no such member")
}

func (r *memMemberRepo) Create(_ context.Context, m *memberdomain.Member) error {
	if _, exists := r.byUsername[m.Username]; exists {
		return memberrepo.ErrDuplicateUsername
	}
	if r.byUsername == nil {
		r.byUsername = map[string]*memberdomain.Member{}
	}
	cp := *m
	r.byUsername[m.Username] = &cp
	return nil
}

type memAccountLookup struct {
	accounts map[string]*accountdomain.Account // by id
	roster   map[string]map[string]bool        // accountID -> memberID
}

func (l *memAccountLookup) GetByID(_ context.Context, id string) (*accountdomain.Account, error) {
	return l.accounts[id], nil
}

func (l *memAccountLookup) GetBySubdomain(_ context.Context, subdomain string) (*accountdomain.Account, error) {
	for _, a := range l.accounts {
		if a.Subdomain == subdomain {
			return a, nil
		}
	}
	return nil, nil
}

func (l *memAccountLookup) IsMember(_ context.Context, accountID, memberID string) (bool, error) {
	return l.roster[accountID][memberID], nil
}

func (l *memAccountLookup) AddMember(_ context.Context, accountID, memberID string) error {
	if l.roster == nil {
		l.roster = map[string]map[string]bool{}
	}
	if l.roster[accountID] == nil {
		l.roster[accountID] = map[string]bool{}
	}
	l.roster[accountID][memberID] = true
	return nil
}

func newTestService(t *testing.T, members *memMemberRepo, accounts *memAccountLookup) *Service {
	t.Helper()
	hasher := security.NewHasher(bcrypt.MinCost)
	tokens := security.NewTokenProvider([]byte("signing-secret"), []byte("digest-secret"), time.Hour, revocation.NewMemoryStore())
	resolver := tenant.NewResolver(accounts, "medrekk.com")
	return NewService(members, accounts, hasher, tokens, resolver, nil)
}

func seedMember(t *testing.T, username, password, accountID string, active bool) *memberdomain.Member {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return &memberdomain.Member{
		ID:           "member-" + username,
		AccountID:    accountID,
		Username:     username,
		PasswordHash: string(hash),
		Active:       active,
	}
}

func TestAuthenticate(t *testing.T) {
	m := seedMember(t, "alice", "s3cret", "acc-1", true)
	inactive := seedMember(t, "bob", "s3cret", "acc-1", false)
	members := &memMemberRepo{byUsername: map[string]*memberdomain.Member{
		"alice": m,
		"bob":   inactive,
	}}
	svc := newTestService(t, members, &memAccountLookup{})

	got, err := svc.Authenticate(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != m.ID {
		t.Errorf("member ID = %q, want %q", got.ID, m.ID)
	}

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"unknown username", "nobody", "s3cret"},
		{"wrong password", "alice", "wrong"},
		{"inactive member", "bob", "s3cret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tc.username, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAuthenticate_RepoErrorPropagates(t *testing.T) {
	members := &memMemberRepo{getErr: errors.New("db down")}
	svc := newTestService(t, members, &memAccountLookup{})

	_, err := svc.Authenticate(context.Background(), "alice", "s3cret")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want raw repo error", err)
	}
}

func TestLogin_SubdomainHost(t *testing.T) {
	m := seedMember(t, "alice", "s3cret", "acc-1", true)
	members := &memMemberRepo{byUsername: map[string]*memberdomain.Member{"alice": m}}
	accounts := &memAccountLookup{
		accounts: map[string]*accountdomain.Account{
			"acc-1": {ID: "acc-1", Subdomain: "mercy-clinic", OwnerID: m.ID},
		},
		roster: map[string]map[string]bool{"acc-1": {m.ID: true}},
	}
	svc := newTestService(t, members, accounts)

	res, err := svc.Login(context.Background(), "mercy-clinic.medrekk.com", "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.TokenType != "bearer" {
		t.Errorf("TokenType = %q, want %q", res.TokenType, "bearer")
	}
	if res.AccountID != "acc-1" || res.MemberID != m.ID {
		t.Errorf("identity = (%q, %q), want (%q, %q)", res.MemberID, res.AccountID, m.ID, "acc-1")
	}
	if res.AccessToken == "" || strings.Count(res.AccessToken, ".") != 2 {
		t.Errorf("AccessToken = %q, want a JWT", res.AccessToken)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	m := seedMember(t, "alice", "s3cret", "acc-1", true)
	members := &memMemberRepo{byUsername: map[string]*memberdomain.Member{"alice": m}}
	svc := newTestService(t, members, &memAccountLookup{})

	_, err := svc.Login(context.Background(), "mercy-clinic.medrekk.com", "alice", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_NotOnRoster(t *testing.T) {
	m := seedMember(t, "alice", "s3cret", "acc-1", true)
	members := &memMemberRepo{byUsername: map[string]*memberdomain.Member{"alice": m}}
	accounts := &memAccountLookup{
		accounts: map[string]*accountdomain.Account{
			"acc-2": {ID: "acc-2", Subdomain: "other-clinic", OwnerID: "someone-else"},
		},
		roster: map[string]map[string]bool{},
	}
	svc := newTestService(t, members, accounts)

	_, err := svc.Login(context.Background(), "other-clinic.medrekk.com", "alice", "s3cret")
	if !errors.Is(err, tenant.ErrNotMember) {
		t.Fatalf("err = %v, want tenant.ErrNotMember", err)
	}
}

func TestLogin_RootDomainOwner(t *testing.T) {
	m := seedMember(t, "alice", "s3cret", "acc-1", true)
	members := &memMemberRepo{byUsername: map[string]*memberdomain.Member{"alice": m}}
	accounts := &memAccountLookup{
		accounts: map[string]*accountdomain.Account{
			"acc-1": {ID: "acc-1", Subdomain: "mercy-clinic", OwnerID: m.ID},
		},
	}
	svc := newTestService(t, members, accounts)

	res, err := svc.Login(context.Background(), "medrekk.com", "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccountID != "acc-1" {
		t.Errorf("AccountID = %q, want %q", res.AccountID, "acc-1")
	}
}

func TestRegisterMember(t *testing.T) {
	members := &memMemberRepo{byUsername: map[string]*memberdomain.Member{}}
	accounts := &memAccountLookup{}
	svc := newTestService(t, members, accounts)

	m, err := svc.RegisterMember(context.Background(), "acc-1", "carol", "pa55word")
	if err != nil {
		t.Fatalf("RegisterMember: %v", err)
	}
	if m.ID == "" || m.AccountID != "acc-1" || !m.Active {
		t.Errorf("member = %+v", m)
	}
	if m.PasswordHash == "pa55word" || m.PasswordHash == "" {
		t.Error("password was not hashed")
	}
	if !accounts.roster["acc-1"][m.ID] {
		t.Error("member missing from account roster")
	}

	// The member can log in right away.
	accounts.accounts = map[string]*accountdomain.Account{
		"acc-1": {ID: "acc-1", Subdomain: "mercy-clinic", OwnerID: "owner-1"},
	}
	if _, err := svc.Login(context.Background(), "mercy-clinic.medrekk.com", "carol", "pa55word"); err != nil {
		t.Fatalf("Login after register: %v", err)
	}
}

func TestRegisterMember_DuplicateUsername(t *testing.T) {
	members := &memMemberRepo{byUsername: map[string]*memberdomain.Member{}}
	svc := newTestService(t, members, &memAccountLookup{})

	if _, err := svc.RegisterMember(context.Background(), "acc-1", "carol", "pa55word"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.RegisterMember(context.Background(), "acc-1", "carol", "other")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestGetMember(t *testing.T) {
	m := seedMember(t, "alice", "s3cret", "acc-1", true)
	members := &memMemberRepo{byUsername: map[string]*memberdomain.Member{"alice": m}}
	svc := newTestService(t, members, &memAccountLookup{})

	got, err := svc.GetMember(context.Background(), "acc-1", m.ID)
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q, want %q", got.Username, "alice")
	}

	if _, err := svc.GetMember(context.Background(), "acc-1", "no-such-id"); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("unknown id: err = %v, want ErrMemberNotFound", err)
	}
	// A member of another account must be indistinguishable from a missing one.
	if _, err := svc.GetMember(context.Background(), "acc-2", m.ID); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("foreign account: err = %v, want ErrMemberNotFound", err)
	}
}

func TestChangePassword(t *testing.T) {
	m := seedMember(t, "alice", "s3cret", "acc-1", true)
	members := &memMemberRepo{byUsername: map[string]*memberdomain.Member{"alice": m}}
	svc := newTestService(t, members, &memAccountLookup{})

	if err := svc.ChangePassword(context.Background(), "acc-1", m.ID, "n3w-pass"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "alice", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(context.Background(), "alice", "n3w-pass"); err != nil {
		t.Errorf("new password: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), "acc-2", m.ID, "x"); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("foreign account: err = %v, want ErrMemberNotFound", err)
	}
}

func TestDeactivateMember(t *testing.T) {
	m := seedMember(t, "alice", "s3cret", "acc-1", true)
	members := &memMemberRepo{byUsername: map[string]*memberdomain.Member{"alice": m}}
	svc := newTestService(t, members, &memAccountLookup{})

	if err := svc.DeactivateMember(context.Background(), "acc-1", m.ID); err != nil {
		t.Fatalf("DeactivateMember: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "alice", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("after deactivation: err = %v, want ErrInvalidCredentials", err)
	}

	if err := svc.DeactivateMember(context.Background(), "acc-2", m.ID); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("foreign account: err = %v, want ErrMemberNotFound", err)
	}
}

func TestLogout_InvalidatesToken(t *testing.T) {
	m := seedMember(t, "alice", "s3cret", "acc-1", true)
	members := &memMemberRepo{byUsername: map[string]*memberdomain.Member{"alice": m}}
	accounts := &memAccountLookup{
		accounts: map[string]*accountdomain.Account{
			"acc-1": {ID: "acc-1", Subdomain: "mercy-clinic", OwnerID: m.ID},
		},
		roster: map[string]map[string]bool{"acc-1": {m.ID: true}},
	}

	hasher := security.NewHasher(bcrypt.MinCost)
	tokens := security.NewTokenProvider([]byte("signing-secret"), []byte("digest-secret"), time.Hour, revocation.NewMemoryStore())
	resolver := tenant.NewResolver(accounts, "medrekk.com")
	svc := NewService(members, accounts, hasher, tokens, resolver, nil)

	res, err := svc.Login(context.Background(), "mercy-clinic.medrekk.com", "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, _, err := tokens.Verify(context.Background(), res.AccessToken); err != nil {
		t.Fatalf("Verify before logout: %v", err)
	}

	if err := svc.Logout(context.Background(), res.MemberID, res.AccountID, res.AccessToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, _, err := tokens.Verify(context.Background(), res.AccessToken); !errors.Is(err, security.ErrInvalidToken) {
		t.Fatalf("Verify after logout: err = %v, want ErrInvalidToken", err)
	}
}
