package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"medrekk/internal/patient/domain"
)

// PostgresRepository is a Postgres-backed patient repository.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a Postgres-backed patient repository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const recordColumns = `id, account_id, lastname, middlename, firstname, suffix, birthdate, gender,
	mobile, email, address_country, address_province, address_city, address_barangay,
	address_line1, address_line2, religion, created_at, updated_at`

func (r *PostgresRepository) CreateRecord(ctx context.Context, rec *domain.PatientRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patient_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		rec.ID, rec.AccountID, rec.LastName, nullStr(rec.MiddleName), rec.FirstName,
		nullStr(rec.Suffix), rec.Birthdate, nullStr(rec.Gender), nullStr(rec.Mobile),
		nullStr(rec.Email), rec.AddressCountry, rec.AddressProvince, rec.AddressCity,
		rec.AddressBarangay, rec.AddressLine1, nullStr(rec.AddressLine2), rec.Religion,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create patient record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetRecord(ctx context.Context, accountID, recordID string) (*domain.PatientRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM patient_records
		WHERE id = $1 AND account_id = $2`,
		recordID, accountID,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("get patient record: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) ListRecords(ctx context.Context, accountID string) ([]*domain.PatientRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM patient_records
		WHERE account_id = $1
		ORDER BY created_at`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("list patient records: %w", err)
	}
	defer rows.Close()

	var out []*domain.PatientRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list patient records: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) DeleteRecord(ctx context.Context, accountID, recordID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM patient_records WHERE id = $1 AND account_id = $2`,
		recordID, accountID,
	)
	if err != nil {
		return false, fmt.Errorf("delete patient record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresRepository) AddBloodPressure(ctx context.Context, bp *domain.BloodPressure) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patient_blood_pressures (id, record_id, systolic, diastolic, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		bp.ID, bp.RecordID, bp.Systolic, bp.Diastolic, bp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("add blood pressure: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListBloodPressures(ctx context.Context, recordID string) ([]*domain.BloodPressure, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, record_id, systolic, diastolic, created_at
		FROM patient_blood_pressures
		WHERE record_id = $1
		ORDER BY created_at`,
		recordID,
	)
	if err != nil {
		return nil, fmt.Errorf("list blood pressures: %w", err)
	}
	defer rows.Close()

	var out []*domain.BloodPressure
	for rows.Next() {
		bp := &domain.BloodPressure{}
		if err := rows.Scan(&bp.ID, &bp.RecordID, &bp.Systolic, &bp.Diastolic, &bp.CreatedAt); err != nil {
			return nil, fmt.Errorf("list blood pressures: %w", err)
		}
		out = append(out, bp)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) AddHeartRate(ctx context.Context, hr *domain.HeartRate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patient_heart_rates (id, record_id, bpm, created_at)
		VALUES ($1, $2, $3, $4)`,
		hr.ID, hr.RecordID, hr.BPM, hr.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("add heart rate: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListHeartRates(ctx context.Context, recordID string) ([]*domain.HeartRate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, record_id, bpm, created_at
		FROM patient_heart_rates
		WHERE record_id = $1
		ORDER BY created_at`,
		recordID,
	)
	if err != nil {
		return nil, fmt.Errorf("list heart rates: %w", err)
	}
	defer rows.Close()

	var out []*domain.HeartRate
	for rows.Next() {
		hr := &domain.HeartRate{}
		if err := rows.Scan(&hr.ID, &hr.RecordID, &hr.BPM, &hr.CreatedAt); err != nil {
			return nil, fmt.Errorf("list heart rates: %w", err)
		}
		out = append(out, hr)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) AddBodyTemperature(ctx context.Context, bt *domain.BodyTemperature) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patient_body_temperatures (id, record_id, celsius, created_at)
		VALUES ($1, $2, $3, $4)`,
		bt.ID, bt.RecordID, bt.Celsius, bt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("add body temperature: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListBodyTemperatures(ctx context.Context, recordID string) ([]*domain.BodyTemperature, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, record_id, celsius, created_at
		FROM patient_body_temperatures
		WHERE record_id = $1
		ORDER BY created_at`,
		recordID,
	)
	if err != nil {
		return nil, fmt.Errorf("list body temperatures: %w", err)
	}
	defer rows.Close()

	var out []*domain.BodyTemperature
	for rows.Next() {
		bt := &domain.BodyTemperature{}
		if err := rows.Scan(&bt.ID, &bt.RecordID, &bt.Celsius, &bt.CreatedAt); err != nil {
			return nil, fmt.Errorf("list body temperatures: %w", err)
		}
		out = append(out, bt)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.PatientRecord, error) {
	rec := &domain.PatientRecord{}
	var middlename, suffix, gender, mobile, email, line2 sql.NullString
	err := row.Scan(
		&rec.ID, &rec.AccountID, &rec.LastName, &middlename, &rec.FirstName, &suffix,
		&rec.Birthdate, &gender, &mobile, &email, &rec.AddressCountry, &rec.AddressProvince,
		&rec.AddressCity, &rec.AddressBarangay, &rec.AddressLine1, &line2, &rec.Religion,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.MiddleName = middlename.String
	rec.Suffix = suffix.String
	rec.Gender = gender.String
	rec.Mobile = mobile.String
	rec.Email = email.String
	rec.AddressLine2 = line2.String
	return rec, nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
