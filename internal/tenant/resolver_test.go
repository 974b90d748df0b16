package tenant

import (
	"context"
	"errors"
	"testing"
	"time"

	"medrekk/internal/account/domain"
)

type memAccountLookup struct {
	byID        map[string]*domain.Account
	bySubdomain map[string]*domain.Account
	members     map[string]map[string]bool // accountID -> memberID -> true
	err         error
}

func (m *memAccountLookup) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byID[id], nil
}

func (m *memAccountLookup) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.bySubdomain[subdomain], nil
}

func (m *memAccountLookup) IsMember(ctx context.Context, accountID, memberID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.members[accountID][memberID], nil
}

func newLookup() *memAccountLookup {
	acme := &domain.Account{
		ID: "acc-acme", Name: "Acme Clinic", Subdomain: "acme",
		OwnerID: "m-owner", Status: domain.AccountStatusActive,
		TrialEndsAt: time.Now().Add(domain.TrialPeriod), CreatedAt: time.Now(),
	}
	return &memAccountLookup{
		byID:        map[string]*domain.Account{"acc-acme": acme},
		bySubdomain: map[string]*domain.Account{"acme": acme},
		members: map[string]map[string]bool{
			"acc-acme": {"m-owner": true, "m-staff": true},
		},
	}
}

func TestResolve_SubdomainMember(t *testing.T) {
	r := NewResolver(newLookup(), "medrekk.com")

	account, err := r.Resolve(context.Background(), "acme.medrekk.com", "m-staff", "acc-acme")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if account.ID != "acc-acme" {
		t.Errorf("account = %q, want acc-acme", account.ID)
	}
}

func TestResolve_SubdomainNonMember(t *testing.T) {
	r := NewResolver(newLookup(), "medrekk.com")

	// A signature-valid token for acc-acme presented by a member who is not on
	// the roster must be rejected.
	_, err := r.Resolve(context.Background(), "acme.medrekk.com", "m-outsider", "acc-acme")
	if !errors.Is(err, ErrNotMember) {
		t.Fatalf("Resolve = %v, want ErrNotMember", err)
	}
}

func TestResolve_CrossTenant(t *testing.T) {
	l := newLookup()
	other := &domain.Account{ID: "acc-other", Name: "Other", Subdomain: "other", OwnerID: "m-x"}
	l.byID["acc-other"] = other
	l.bySubdomain["other"] = other
	l.members["acc-other"] = map[string]bool{"m-x": true}
	r := NewResolver(l, "medrekk.com")

	// Token issued for acc-acme, request arrives on other's subdomain.
	_, err := r.Resolve(context.Background(), "other.medrekk.com", "m-staff", "acc-acme")
	if !errors.Is(err, ErrNotMember) {
		t.Fatalf("Resolve = %v, want ErrNotMember", err)
	}
}

func TestResolve_UnknownSubdomain(t *testing.T) {
	r := NewResolver(newLookup(), "medrekk.com")

	_, err := r.Resolve(context.Background(), "ghost.medrekk.com", "m-staff", "acc-acme")
	if !errors.Is(err, ErrUnknownTenant) {
		t.Fatalf("Resolve = %v, want ErrUnknownTenant", err)
	}
}

func TestResolve_RootDomainOwner(t *testing.T) {
	r := NewResolver(newLookup(), "medrekk.com")

	account, err := r.Resolve(context.Background(), "medrekk.com", "m-owner", "acc-acme")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if account.ID != "acc-acme" {
		t.Errorf("account = %q, want acc-acme", account.ID)
	}
}

func TestResolve_RootDomainNonOwner(t *testing.T) {
	r := NewResolver(newLookup(), "medrekk.com")

	// Staff belongs to the account but does not own it; the root-domain fast
	// path is owner-only.
	_, err := r.Resolve(context.Background(), "medrekk.com", "m-staff", "acc-acme")
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("Resolve = %v, want ErrNotOwner", err)
	}
}

func TestResolve_RootDomainUnknownAccount(t *testing.T) {
	r := NewResolver(newLookup(), "medrekk.com")

	_, err := r.Resolve(context.Background(), "medrekk.com", "m-owner", "acc-ghost")
	if !errors.Is(err, ErrUnknownTenant) {
		t.Fatalf("Resolve = %v, want ErrUnknownTenant", err)
	}
}

func TestResolve_HostNormalization(t *testing.T) {
	r := NewResolver(newLookup(), "medrekk.com")

	for _, host := range []string{"ACME.medrekk.com", "acme.medrekk.com:8443", "medrekk.com:443"} {
		memberID := "m-staff"
		if host == "medrekk.com:443" {
			memberID = "m-owner"
		}
		if _, err := r.Resolve(context.Background(), host, memberID, "acc-acme"); err != nil {
			t.Errorf("Resolve(%q): %v", host, err)
		}
	}
}

func TestResolve_LookupError(t *testing.T) {
	l := newLookup()
	l.err = errors.New("db down")
	r := NewResolver(l, "medrekk.com")

	if _, err := r.Resolve(context.Background(), "acme.medrekk.com", "m-staff", "acc-acme"); err == nil {
		t.Fatal("Resolve should propagate lookup errors")
	}
}
