package domain

import (
	"fmt"
	"time"
)

// EntryType classifies a ledger entry.
type EntryType string

const (
	EntryDeposit     EntryType = "deposit"
	EntryWithdrawal  EntryType = "withdrawal"
	EntryTransferOut EntryType = "transfer_out"
	EntryTransferIn  EntryType = "transfer_in"
)

// entrySigns maps each entry type to the direction it moves the balance.
var entrySigns = map[EntryType]int{
	EntryDeposit:     +1,
	EntryWithdrawal:  -1,
	EntryTransferOut: -1,
	EntryTransferIn:  +1,
}

// Sign returns +1 for credits and -1 for debits.
func (t EntryType) Sign() int {
	return entrySigns[t]
}

// IsCredit reports whether the type increases the balance.
func (t EntryType) IsCredit() bool {
	return entrySigns[t] > 0
}

// IsDebit reports whether the type decreases the balance.
func (t EntryType) IsDebit() bool {
	return entrySigns[t] < 0
}

// IsTransfer reports whether the type is one leg of a transfer.
func (t EntryType) IsTransfer() bool {
	return t == EntryTransferOut || t == EntryTransferIn
}

// IsValid reports whether the type is one of the known entry types.
func (t EntryType) IsValid() bool {
	_, ok := entrySigns[t]
	return ok
}

// LedgerEntry is an immutable audit record of one balance-affecting
// event. Once created it is never mutated or deleted.
type LedgerEntry struct {
	ID            string
	Type          EntryType
	Amount        MoneyValue
	AccountID     string
	CounterpartID string // set only for transfer legs
	Description   string
	CreatedAt     time.Time
	BalanceBefore MoneyValue
	BalanceAfter  MoneyValue
}

// NewLedgerEntry creates a validated ledger entry. The balance delta
// must match the type's sign convention exactly.
func NewLedgerEntry(
	id string,
	entryType EntryType,
	amount MoneyValue,
	accountID, counterpartID, description string,
	balanceBefore, balanceAfter MoneyValue,
	createdAt time.Time,
) (*LedgerEntry, error) {
	if !entryType.IsValid() {
		return nil, fmt.Errorf("%w: unknown entry type %q", ErrValidation, entryType)
	}

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: entry amount must be positive, got %s", ErrValidation, amount)
	}

	if accountID == "" {
		return nil, fmt.Errorf("%w: account id cannot be empty", ErrValidation)
	}

	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	if entryType.IsTransfer() && counterpartID == "" {
		return nil, fmt.Errorf("%w: transfer entries require a counterpart account", ErrValidation)
	}

	if !entryType.IsTransfer() && counterpartID != "" {
		return nil, fmt.Errorf("%w: %s entries cannot name a counterpart account", ErrValidation, entryType)
	}

	if err := checkBalanceDelta(entryType, amount, balanceBefore, balanceAfter); err != nil {
		return nil, err
	}

	return &LedgerEntry{
		ID:            id,
		Type:          entryType,
		Amount:        amount,
		AccountID:     accountID,
		CounterpartID: counterpartID,
		Description:   description,
		CreatedAt:     createdAt,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
	}, nil
}

func checkBalanceDelta(entryType EntryType, amount, before, after MoneyValue) error {
	var (
		expected MoneyValue
		err      error
	)

	if entryType.IsCredit() {
		expected, err = before.Add(amount)
	} else {
		expected, err = before.Subtract(amount)
	}

	if err != nil {
		return err
	}

	if !after.Equal(expected) {
		return fmt.Errorf("%w: balance after %s does not equal %s %c %s",
			ErrValidation, after, before, signRune(entryType), amount)
	}

	return nil
}

func signRune(t EntryType) rune {
	if t.IsCredit() {
		return '+'
	}

	return '-'
}
