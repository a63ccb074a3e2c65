package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the fixed number of decimal places for all monetary amounts.
const MoneyScale = 2

// MoneyValue is a currency-tagged fixed-scale decimal amount.
// It is immutable: every arithmetic operation returns a new value.
type MoneyValue struct {
	amount   decimal.Decimal
	currency string
}

// NewMoneyValue creates a MoneyValue, normalizing the amount to two
// decimal places with round-half-up.
func NewMoneyValue(amount decimal.Decimal, currency string) (MoneyValue, error) {
	if err := ValidateCurrency(currency); err != nil {
		return MoneyValue{}, err
	}

	return MoneyValue{
		amount:   amount.Round(MoneyScale),
		currency: currency,
	}, nil
}

// NewMoneyValueFromString parses a decimal string into a MoneyValue.
func NewMoneyValueFromString(amount, currency string) (MoneyValue, error) {
	if amount == "" {
		return MoneyValue{}, fmt.Errorf("%w: amount is required", ErrValidation)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return MoneyValue{}, fmt.Errorf("%w: invalid amount %q", ErrValidation, amount)
	}

	return NewMoneyValue(d, currency)
}

// Zero returns the zero amount in the given currency.
func Zero(currency string) MoneyValue {
	return MoneyValue{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount.
func (m MoneyValue) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the 3-letter currency code.
func (m MoneyValue) Currency() string {
	return m.currency
}

// Add returns m + other. Both values must share a currency.
func (m MoneyValue) Add(other MoneyValue) (MoneyValue, error) {
	if err := m.checkCurrency(other); err != nil {
		return MoneyValue{}, err
	}

	return MoneyValue{
		amount:   m.amount.Add(other.amount).Round(MoneyScale),
		currency: m.currency,
	}, nil
}

// Subtract returns m - other. Both values must share a currency.
func (m MoneyValue) Subtract(other MoneyValue) (MoneyValue, error) {
	if err := m.checkCurrency(other); err != nil {
		return MoneyValue{}, err
	}

	return MoneyValue{
		amount:   m.amount.Sub(other.amount).Round(MoneyScale),
		currency: m.currency,
	}, nil
}

// Multiply returns m scaled by factor, rounded half-up to two decimals.
func (m MoneyValue) Multiply(factor decimal.Decimal) MoneyValue {
	return MoneyValue{
		amount:   m.amount.Mul(factor).Round(MoneyScale),
		currency: m.currency,
	}
}

// Compare returns -1, 0 or 1 when m is less than, equal to, or greater
// than other.
func (m MoneyValue) Compare(other MoneyValue) (int, error) {
	if err := m.checkCurrency(other); err != nil {
		return 0, err
	}

	return m.amount.Cmp(other.amount), nil
}

// GreaterThanOrEqual reports whether m >= other.
func (m MoneyValue) GreaterThanOrEqual(other MoneyValue) (bool, error) {
	cmp, err := m.Compare(other)
	if err != nil {
		return false, err
	}

	return cmp >= 0, nil
}

// Equal reports whether two values have the same currency and amount.
func (m MoneyValue) Equal(other MoneyValue) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m MoneyValue) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative reports whether the amount is strictly less than zero.
func (m MoneyValue) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsZero reports whether the amount is exactly zero.
func (m MoneyValue) IsZero() bool {
	return m.amount.IsZero()
}

// String renders the value as "12.50 USD".
func (m MoneyValue) String() string {
	return m.amount.StringFixed(MoneyScale) + " " + m.currency
}

func (m MoneyValue) checkCurrency(other MoneyValue) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}

	return nil
}
