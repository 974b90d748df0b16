package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"medrekk/internal/member/domain"
)

// uniqueViolation is the Postgres SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a member repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const memberColumns = "id, account_id, username, password_hash, active, created_at, updated_at"

// GetByID returns the member for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE id = $1", id)
	return scanMember(row)
}

// GetByUsername returns the member with the given username, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.Member, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE username = $1", username)
	return scanMember(row)
}

// ListByAccount returns all members whose home account is accountID.
func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE account_id = $1 ORDER BY created_at", accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.AccountID, &m.Username, &m.PasswordHash, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// Create persists the member. The member must have ID set; it is not assigned
// by this method. Returns ErrDuplicateUsername if the username is taken.
func (r *PostgresRepository) Create(ctx context.Context, m *domain.Member) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO members (id, account_id, username, password_hash, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.AccountID, m.Username, m.PasswordHash, m.Active, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}

// UpdatePasswordHash replaces the stored hash for the member.
func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE members SET password_hash = $2, updated_at = now() WHERE id = $1", id, passwordHash)
	return err
}

// SetActive toggles the member's active flag. Deactivated members can no
// longer authenticate; outstanding tokens lapse with their revocation entries.
func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE members SET active = $2, updated_at = now() WHERE id = $1", id, active)
	return err
}

func scanMember(row *sql.Row) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(&m.ID, &m.AccountID, &m.Username, &m.PasswordHash, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}
