package repository

import (
	"context"
	"errors"

	"medrekk/internal/member/domain"
)

// ErrDuplicateUsername is returned by Create when the username is already
// taken (unique index violation). Callers map it to a Conflict.
var ErrDuplicateUsername = errors.New("username already exists")

// Repository defines persistence for members.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByUsername(ctx context.Context, username string) (*domain.Member, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Member, error)
	Create(ctx context.Context, m *domain.Member) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) error
}
