package domain

import (
	"errors"
	"strings"
	"time"
)

// TrialPeriod is the trial length granted to newly registered accounts.
const TrialPeriod = 14 * 24 * time.Hour

// Account is an isolated customer organization (tenant) with its own
// subdomain and member roster.
type Account struct {
	ID          string
	Name        string
	Subdomain   string
	OwnerID     string
	Status      AccountStatus
	TrialEndsAt time.Time
	CreatedAt   time.Time
}

type AccountStatus string

const (
	AccountStatusTrial     AccountStatus = "trial"
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
)

// NormalizeName collapses runs of whitespace in an account name to single
// spaces. Uniqueness checks compare normalized names case-insensitively.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// DeriveSubdomain derives the account's subdomain from its normalized name:
// lower-cased, whitespace joined with hyphens. Derived once at creation and
// immutable thereafter; unique across all accounts.
func DeriveSubdomain(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

// Validate validates the account for persistence. Returns an error describing
// the first validation failure.
func (a *Account) Validate() error {
	if a.ID == "" {
		return errors.New("id is required")
	}
	if a.Name == "" {
		return errors.New("name is required")
	}
	if a.Subdomain == "" {
		return errors.New("subdomain is required")
	}
	if a.Status == "" {
		a.Status = AccountStatusTrial
	}
	return nil
}
