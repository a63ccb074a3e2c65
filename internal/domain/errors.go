package domain

import "errors"

var (
	// Validation errors
	ErrValidation = errors.New("validation failed")

	// Account errors
	ErrAccountNotFound        = errors.New("account not found")
	ErrAccountInactive        = errors.New("account is not active")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrDuplicateAccountNumber = errors.New("account number already exists")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Transfer errors
	ErrSelfTransfer     = errors.New("cannot transfer to the same account")
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// Concurrency errors
	ErrLockTimeout = errors.New("timed out acquiring account lock")

	// Ledger errors
	ErrEntryNotFound = errors.New("ledger entry not found")
)
