package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"medrekk/internal/account/domain"
	memberdomain "medrekk/internal/member/domain"
	memberrepo "medrekk/internal/member/repository"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an account repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = "id, name, subdomain, owner_id, status, trial_ends_at, created_at"

// GetByID returns the account for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = $1", id)
	return scanAccount(row)
}

// GetBySubdomain returns the account owning the subdomain, or nil if not found.
func (r *PostgresRepository) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE subdomain = $1", subdomain)
	return scanAccount(row)
}

// CreateWithOwner persists the account, its owner member, and the owner's
// roster entry in one transaction, so a half-registered account can never be
// observed.
func (r *PostgresRepository) CreateWithOwner(ctx context.Context, a *domain.Account, owner *memberdomain.Member) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO accounts (id, name, subdomain, owner_id, status, trial_ends_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Name, a.Subdomain, a.OwnerID, a.Status, a.TrialEndsAt, a.CreatedAt)
	if err != nil {
		return mapAccountError(err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO members (id, account_id, username, password_hash, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		owner.ID, owner.AccountID, owner.Username, owner.PasswordHash, owner.Active, owner.CreatedAt, owner.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return memberrepo.ErrDuplicateUsername
		}
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO account_members (account_id, member_id) VALUES ($1, $2)",
		a.ID, owner.ID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// AddMember adds the member to the account's roster. Adding twice is a no-op.
func (r *PostgresRepository) AddMember(ctx context.Context, accountID, memberID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account_members (account_id, member_id) VALUES ($1, $2)
		 ON CONFLICT (account_id, member_id) DO NOTHING`,
		accountID, memberID)
	return err
}

// IsMember reports whether the member is on the account's roster.
func (r *PostgresRepository) IsMember(ctx context.Context, accountID, memberID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT count(*) FROM account_members WHERE account_id = $1 AND member_id = $2",
		accountID, memberID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListMemberIDs returns the ids of all members on the account's roster.
func (r *PostgresRepository) ListMemberIDs(ctx context.Context, accountID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT member_id FROM account_members WHERE account_id = $1", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func mapAccountError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateAccount
	}
	return err
}

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.Name, &a.Subdomain, &a.OwnerID, &a.Status, &a.TrialEndsAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
