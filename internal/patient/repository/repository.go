package repository

import (
	"context"

	"medrekk/internal/patient/domain"
)

// Repository defines persistence for patient records and their vitals.
// Record reads are scoped by account: a record id that exists under a
// different account behaves exactly like a missing record (nil, nil).
type Repository interface {
	CreateRecord(ctx context.Context, r *domain.PatientRecord) error
	GetRecord(ctx context.Context, accountID, recordID string) (*domain.PatientRecord, error)
	ListRecords(ctx context.Context, accountID string) ([]*domain.PatientRecord, error)
	DeleteRecord(ctx context.Context, accountID, recordID string) (bool, error)

	AddBloodPressure(ctx context.Context, bp *domain.BloodPressure) error
	ListBloodPressures(ctx context.Context, recordID string) ([]*domain.BloodPressure, error)

	AddHeartRate(ctx context.Context, hr *domain.HeartRate) error
	ListHeartRates(ctx context.Context, recordID string) ([]*domain.HeartRate, error)

	AddBodyTemperature(ctx context.Context, bt *domain.BodyTemperature) error
	ListBodyTemperatures(ctx context.Context, recordID string) ([]*domain.BodyTemperature, error)
}
