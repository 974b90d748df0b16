// Package domain holds the patient record and vitals entities.
package domain

import (
	"errors"
	"time"
)

// PatientRecord is a patient's profile, owned by exactly one account. All
// reads and writes are scoped by the owning account; a record never leaks
// across tenants.
type PatientRecord struct {
	ID        string
	AccountID string

	LastName   string
	MiddleName string
	FirstName  string
	Suffix     string
	Birthdate  *time.Time
	Gender     string
	Mobile     string
	Email      string

	AddressCountry  string
	AddressProvince string
	AddressCity     string
	AddressBarangay string
	AddressLine1    string
	AddressLine2    string
	Religion        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the record for persistence.
func (r *PatientRecord) Validate() error {
	if r.ID == "" {
		return errors.New("id is required")
	}
	if r.AccountID == "" {
		return errors.New("account id is required")
	}
	if r.LastName == "" {
		return errors.New("lastname is required")
	}
	if r.FirstName == "" {
		return errors.New("firstname is required")
	}
	return nil
}
