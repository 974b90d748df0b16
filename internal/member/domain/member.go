package domain

import (
	"errors"
	"strings"
	"time"
)

// Member is a person who can authenticate: the principal behind every access
// token. A member belongs to exactly one home account; roster entries on other
// accounts grant additional tenant access.
type Member struct {
	ID           string
	AccountID    string
	Username     string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate validates the member for persistence. Returns an error describing
// the first validation failure.
func (m *Member) Validate() error {
	if m.ID == "" {
		return errors.New("id is required")
	}
	if strings.TrimSpace(m.Username) == "" {
		return errors.New("username is required")
	}
	if m.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if m.AccountID == "" {
		return errors.New("account id is required")
	}
	return nil
}
