package domain

import (
	"fmt"
	"time"
)

// Account holds a balance for an owner and enforces the non-negative
// balance invariant. All balance mutations go through Deposit and
// Withdraw; nothing else touches the balance.
type Account struct {
	ID        string
	Number    string
	OwnerID   string
	Balance   MoneyValue
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount creates a new active account with a zero balance.
func NewAccount(id, number, ownerID, currency string, now time.Time) (*Account, error) {
	if err := ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}

	if err := ValidateAccountNumber(number); err != nil {
		return nil, err
	}

	if err := ValidateCurrency(currency); err != nil {
		return nil, err
	}

	return &Account{
		ID:        id,
		Number:    number,
		OwnerID:   ownerID,
		Balance:   Zero(currency),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RehydrateAccount rebuilds an account from stored state. Creation
// invariants were enforced when the account was first created and are
// not re-validated on load.
func RehydrateAccount(id, number, ownerID string, balance MoneyValue, active bool, createdAt, updatedAt time.Time) *Account {
	return &Account{
		ID:        id,
		Number:    number,
		OwnerID:   ownerID,
		Balance:   balance,
		Active:    active,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Deposit credits amount to the balance and returns the new balance.
// The account must be active and the amount strictly positive.
func (a *Account) Deposit(amount MoneyValue, now time.Time) (MoneyValue, error) {
	if err := a.requireActive(); err != nil {
		return MoneyValue{}, err
	}

	if !amount.IsPositive() {
		return MoneyValue{}, fmt.Errorf("%w: deposit amount must be positive, got %s", ErrValidation, amount)
	}

	newBalance, err := a.Balance.Add(amount)
	if err != nil {
		return MoneyValue{}, err
	}

	a.Balance = newBalance
	a.UpdatedAt = now

	return newBalance, nil
}

// Withdraw debits amount from the balance and returns the new balance.
// The account must be active, the amount strictly positive, and the
// balance sufficient.
func (a *Account) Withdraw(amount MoneyValue, now time.Time) (MoneyValue, error) {
	if err := a.requireActive(); err != nil {
		return MoneyValue{}, err
	}

	if !amount.IsPositive() {
		return MoneyValue{}, fmt.Errorf("%w: withdrawal amount must be positive, got %s", ErrValidation, amount)
	}

	sufficient, err := a.HasSufficientFunds(amount)
	if err != nil {
		return MoneyValue{}, err
	}

	if !sufficient {
		return MoneyValue{}, fmt.Errorf("%w: account %s has %s, requested %s",
			ErrInsufficientFunds, a.ID, a.Balance, amount)
	}

	newBalance, err := a.Balance.Subtract(amount)
	if err != nil {
		return MoneyValue{}, err
	}

	a.Balance = newBalance
	a.UpdatedAt = now

	return newBalance, nil
}

// HasSufficientFunds reports whether the balance covers amount.
func (a *Account) HasSufficientFunds(amount MoneyValue) (bool, error) {
	return a.Balance.GreaterThanOrEqual(amount)
}

// Deactivate marks the account inactive. Idempotent; the balance is
// untouched.
func (a *Account) Deactivate(now time.Time) {
	a.Active = false
	a.UpdatedAt = now
}

// Activate marks the account active again. Idempotent.
func (a *Account) Activate(now time.Time) {
	a.Active = true
	a.UpdatedAt = now
}

// Clone returns a copy of the account. Use cases mutate copies so a
// failed operation never leaks a half-applied state.
func (a *Account) Clone() *Account {
	clone := *a
	return &clone
}

func (a *Account) requireActive() error {
	if !a.Active {
		return fmt.Errorf("%w: account %s", ErrAccountInactive, a.ID)
	}

	return nil
}
