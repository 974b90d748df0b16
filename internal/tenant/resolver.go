// Package tenant resolves which account a request acts on, from the request's
// Host header and the authenticated member.
package tenant

import (
	"context"
	"errors"
	"strings"

	"medrekk/internal/account/domain"
)

var (
	// ErrUnknownTenant is returned when no account matches the request's
	// subdomain (or claimed account id on the root domain).
	ErrUnknownTenant = errors.New("unknown tenant")
	// ErrNotMember is returned when the member is not on the resolved
	// account's roster. A valid token for tenant A never authorizes tenant B.
	ErrNotMember = errors.New("member does not belong to the account")
	// ErrNotOwner is returned on the root-domain path when the member does not
	// own the claimed account.
	ErrNotOwner = errors.New("member does not own the account")
)

// AccountLookup is the minimal account access the resolver needs.
type AccountLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*domain.Account, error)
	IsMember(ctx context.Context, accountID, memberID string) (bool, error)
}

// Resolver determines the active account for a request. Requests to the
// canonical root domain take the owner fast path against the claimed account;
// requests to any other host are resolved by subdomain and checked against the
// account's roster.
type Resolver struct {
	accounts   AccountLookup
	rootDomain string
}

// NewResolver returns a Resolver using the given account lookup and canonical
// root domain (e.g. "medrekk.com").
func NewResolver(accounts AccountLookup, rootDomain string) *Resolver {
	return &Resolver{accounts: accounts, rootDomain: strings.ToLower(rootDomain)}
}

// Resolve returns the active account for a request from host, made by
// memberID whose token claims claimedAccountID.
//
// Root domain: the claimed account is used, but only if memberID owns it.
// Any other host: the first host label selects the account by subdomain, and
// memberID must be on that account's roster — the token's own account claim
// does not carry across tenants.
func (r *Resolver) Resolve(ctx context.Context, host, memberID, claimedAccountID string) (*domain.Account, error) {
	hostname := normalizeHost(host)
	if hostname == "" {
		return nil, ErrUnknownTenant
	}

	if hostname == r.rootDomain {
		account, err := r.accounts.GetByID(ctx, claimedAccountID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, ErrUnknownTenant
		}
		if account.OwnerID != memberID {
			return nil, ErrNotOwner
		}
		return account, nil
	}

	subdomain, _, _ := strings.Cut(hostname, ".")
	account, err := r.accounts.GetBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrUnknownTenant
	}
	ok, err := r.accounts.IsMember(ctx, account.ID, memberID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}
	return account, nil
}

// normalizeHost lower-cases host and strips an optional port.
func normalizeHost(host string) string {
	h := strings.ToLower(strings.TrimSpace(host))
	if i := strings.LastIndexByte(h, ':'); i >= 0 && !strings.Contains(h[i:], "]") {
		h = h[:i]
	}
	return strings.TrimSuffix(h, ".")
}
