package domain

import (
	"fmt"
	"strings"
	"time"
)

// User is an account owner. The ledger core only reads users to
// resolve ownership; registration and profile management live outside
// this module.
type User struct {
	ID        string
	Name      string
	Email     string
	Document  string
	Active    bool
	CreatedAt time.Time
}

// NewUser creates a validated user record.
func NewUser(id, name, email, document string, now time.Time) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: user name cannot be empty", ErrValidation)
	}

	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	return &User{
		ID:        id,
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Document:  document,
		Active:    true,
		CreatedAt: now,
	}, nil
}
