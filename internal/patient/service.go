// Package patient implements patient record and vitals management, scoped to
// the requesting account.
package patient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"medrekk/internal/patient/domain"
	"medrekk/internal/patient/repository"
)

// ErrRecordNotFound is returned when the record does not exist under the
// account, including when it exists under some other account.
var ErrRecordNotFound = errors.New("patient record not found")

// Service manages patient records and their vitals readings. Every operation
// is scoped by accountID; vitals writes and reads first resolve the record
// under that account so a foreign record id behaves like a missing one.
type Service struct {
	repo repository.Repository
	nowF func() time.Time
}

// NewService returns a patient service backed by repo.
func NewService(repo repository.Repository) *Service {
	return &Service{repo: repo, nowF: func() time.Time { return time.Now().UTC() }}
}

// CreateRecord creates a patient record under the account.
func (s *Service) CreateRecord(ctx context.Context, accountID string, rec *domain.PatientRecord) (*domain.PatientRecord, error) {
	now := s.nowF()
	rec.ID = uuid.New().String()
	rec.AccountID = accountID
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetRecord returns the record, or ErrRecordNotFound if the account has no
// record with that id.
func (s *Service) GetRecord(ctx context.Context, accountID, recordID string) (*domain.PatientRecord, error) {
	rec, err := s.repo.GetRecord(ctx, accountID, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

// ListRecords returns all of the account's patient records.
func (s *Service) ListRecords(ctx context.Context, accountID string) ([]*domain.PatientRecord, error) {
	return s.repo.ListRecords(ctx, accountID)
}

// DeleteRecord removes the record and returns ErrRecordNotFound if the
// account has no record with that id.
func (s *Service) DeleteRecord(ctx context.Context, accountID, recordID string) error {
	deleted, err := s.repo.DeleteRecord(ctx, accountID, recordID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRecordNotFound
	}
	return nil
}

// AddBloodPressure records a blood pressure reading on the record.
func (s *Service) AddBloodPressure(ctx context.Context, accountID, recordID string, systolic, diastolic int) (*domain.BloodPressure, error) {
	if _, err := s.GetRecord(ctx, accountID, recordID); err != nil {
		return nil, err
	}
	bp := &domain.BloodPressure{
		ID:        uuid.New().String(),
		RecordID:  recordID,
		Systolic:  systolic,
		Diastolic: diastolic,
		CreatedAt: s.nowF(),
	}
	if err := s.repo.AddBloodPressure(ctx, bp); err != nil {
		return nil, err
	}
	return bp, nil
}

// ListBloodPressures returns the record's blood pressure readings.
func (s *Service) ListBloodPressures(ctx context.Context, accountID, recordID string) ([]*domain.BloodPressure, error) {
	if _, err := s.GetRecord(ctx, accountID, recordID); err != nil {
		return nil, err
	}
	return s.repo.ListBloodPressures(ctx, recordID)
}

// AddHeartRate records a heart rate reading on the record.
func (s *Service) AddHeartRate(ctx context.Context, accountID, recordID string, bpm int) (*domain.HeartRate, error) {
	if _, err := s.GetRecord(ctx, accountID, recordID); err != nil {
		return nil, err
	}
	hr := &domain.HeartRate{
		ID:        uuid.New().String(),
		RecordID:  recordID,
		BPM:       bpm,
		CreatedAt: s.nowF(),
	}
	if err := s.repo.AddHeartRate(ctx, hr); err != nil {
		return nil, err
	}
	return hr, nil
}

// ListHeartRates returns the record's heart rate readings.
func (s *Service) ListHeartRates(ctx context.Context, accountID, recordID string) ([]*domain.HeartRate, error) {
	if _, err := s.GetRecord(ctx, accountID, recordID); err != nil {
		return nil, err
	}
	return s.repo.ListHeartRates(ctx, recordID)
}

// AddBodyTemperature records a body temperature reading on the record.
func (s *Service) AddBodyTemperature(ctx context.Context, accountID, recordID string, celsius float64) (*domain.BodyTemperature, error) {
	if _, err := s.GetRecord(ctx, accountID, recordID); err != nil {
		return nil, err
	}
	bt := &domain.BodyTemperature{
		ID:        uuid.New().String(),
		RecordID:  recordID,
		Celsius:   celsius,
		CreatedAt: s.nowF(),
	}
	if err := s.repo.AddBodyTemperature(ctx, bt); err != nil {
		return nil, err
	}
	return bt, nil
}

// ListBodyTemperatures returns the record's body temperature readings.
func (s *Service) ListBodyTemperatures(ctx context.Context, accountID, recordID string) ([]*domain.BodyTemperature, error) {
	if _, err := s.GetRecord(ctx, accountID, recordID); err != nil {
		return nil, err
	}
	return s.repo.ListBodyTemperatures(ctx, recordID)
}
