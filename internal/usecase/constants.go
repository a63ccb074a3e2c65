package usecase

import "time"

const (
	// DefaultLockTimeout bounds per-account lock acquisition. Exceeding
	// it surfaces a concurrency conflict instead of blocking the caller.
	DefaultLockTimeout = 5 * time.Second

	// DefaultPageLimit and MaxPageLimit bound history listings.
	DefaultPageLimit = 20
	MaxPageLimit     = 100

	// maxNumberAttempts bounds collision-checked account number
	// generation before giving up.
	maxNumberAttempts = 5
)
