package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation constants
const (
	MaxDescriptionLength = 200
	AccountNumberLength  = 10
)

var (
	currencyRegex      = regexp.MustCompile(`^[A-Z]{3}$`)
	accountNumberRegex = regexp.MustCompile(`^[0-9]{10}$`)
	emailRegex         = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidateCurrency validates a 3-letter uppercase currency code.
func ValidateCurrency(currency string) error {
	if !currencyRegex.MatchString(currency) {
		return fmt.Errorf("%w: %q is not a 3-letter uppercase currency code", ErrValidation, currency)
	}

	return nil
}

// ValidateDescription validates a ledger entry description.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, MaxDescriptionLength)
	}

	return nil
}

// ValidateAccountNumber validates an externally visible account number.
func ValidateAccountNumber(number string) error {
	if !accountNumberRegex.MatchString(number) {
		return fmt.Errorf("%w: account number must be %d digits", ErrValidation, AccountNumberLength)
	}

	return nil
}

// ValidateOwnerID validates an account owner reference.
func ValidateOwnerID(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return fmt.Errorf("%w: owner id cannot be empty", ErrValidation)
	}

	return nil
}

// ValidateEmail validates email format.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	return nil
}

// ValidatePagination clamps pagination parameters to sane bounds.
func ValidatePagination(limit, offset int) (int, int) {
	const (
		maxPageSize     = 1000
		defaultPageSize = 50
	)

	if limit <= 0 {
		limit = defaultPageSize
	}

	if limit > maxPageSize {
		limit = maxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
