package repository

import (
	"context"
	"errors"

	"medrekk/internal/account/domain"
	memberdomain "medrekk/internal/member/domain"
)

// ErrDuplicateAccount is returned by CreateWithOwner when the account name or
// derived subdomain is already taken. Callers map it to a Conflict.
var ErrDuplicateAccount = errors.New("account name already exists")

// Repository defines persistence for accounts and their member rosters.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*domain.Account, error)
	// CreateWithOwner persists the account, its owner member, and the owner's
	// roster entry in one transaction. Returns ErrDuplicateAccount when the
	// name or subdomain collides; the owner's username collision surfaces as
	// the member repository's duplicate error.
	CreateWithOwner(ctx context.Context, a *domain.Account, owner *memberdomain.Member) error
	AddMember(ctx context.Context, accountID, memberID string) error
	IsMember(ctx context.Context, accountID, memberID string) (bool, error)
	ListMemberIDs(ctx context.Context, accountID string) ([]string, error)
}
