package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func mustMoney(t *testing.T, amount, currency string) MoneyValue {
	t.Helper()

	m, err := NewMoneyValueFromString(amount, currency)
	if err != nil {
		t.Fatalf("NewMoneyValueFromString(%q, %q): %v", amount, currency, err)
	}

	return m
}

func TestNewMoneyValue(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
		wantErr  error
	}{
		{name: "plain amount", amount: "100.50", currency: "USD", want: "100.50 USD"},
		{name: "rounds half up", amount: "10.005", currency: "USD", want: "10.01 USD"},
		{name: "rounds down below half", amount: "10.004", currency: "USD", want: "10.00 USD"},
		{name: "normalizes scale", amount: "7", currency: "EUR", want: "7.00 EUR"},
		{name: "empty amount", amount: "", currency: "USD", wantErr: ErrValidation},
		{name: "garbage amount", amount: "abc", currency: "USD", wantErr: ErrValidation},
		{name: "lowercase currency", amount: "1.00", currency: "usd", wantErr: ErrValidation},
		{name: "short currency", amount: "1.00", currency: "US", wantErr: ErrValidation},
		{name: "long currency", amount: "1.00", currency: "USDT", wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoneyValueFromString(tt.amount, tt.currency)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if m.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, m.String())
			}
		})
	}
}

func TestMoneyValue_AddSubtract(t *testing.T) {
	a := mustMoney(t, "100.00", "USD")
	b := mustMoney(t, "33.33", "USD")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.String() != "133.33 USD" {
		t.Errorf("expected 133.33 USD, got %s", sum)
	}

	diff, err := a.Subtract(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff.String() != "66.67 USD" {
		t.Errorf("expected 66.67 USD, got %s", diff)
	}

	// Operands are untouched.
	if a.String() != "100.00 USD" || b.String() != "33.33 USD" {
		t.Errorf("operands mutated: %s, %s", a, b)
	}
}

func TestMoneyValue_CurrencyMismatch(t *testing.T) {
	usd := mustMoney(t, "10.00", "USD")
	eur := mustMoney(t, "10.00", "EUR")

	if _, err := usd.Add(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Add: expected ErrCurrencyMismatch, got %v", err)
	}

	if _, err := usd.Subtract(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Subtract: expected ErrCurrencyMismatch, got %v", err)
	}

	if _, err := usd.Compare(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Compare: expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestMoneyValue_Multiply(t *testing.T) {
	m := mustMoney(t, "10.10", "USD")

	got := m.Multiply(decimal.NewFromFloat(0.5))
	if got.String() != "5.05 USD" {
		t.Errorf("expected 5.05 USD, got %s", got)
	}

	rounded := mustMoney(t, "0.10", "USD").Multiply(decimal.NewFromFloat(0.55))
	if rounded.String() != "0.06 USD" {
		t.Errorf("expected 0.06 USD, got %s", rounded)
	}
}

func TestMoneyValue_Predicates(t *testing.T) {
	zero := Zero("USD")
	if !zero.IsZero() || zero.IsPositive() || zero.IsNegative() {
		t.Errorf("zero predicates wrong: %s", zero)
	}

	pos := mustMoney(t, "0.01", "USD")
	if !pos.IsPositive() || pos.IsZero() || pos.IsNegative() {
		t.Errorf("positive predicates wrong: %s", pos)
	}

	neg := mustMoney(t, "-5.00", "USD")
	if !neg.IsNegative() || neg.IsZero() || neg.IsPositive() {
		t.Errorf("negative predicates wrong: %s", neg)
	}
}

func TestMoneyValue_Compare(t *testing.T) {
	small := mustMoney(t, "1.00", "USD")
	big := mustMoney(t, "2.00", "USD")

	cmp, err := small.Compare(big)
	if err != nil || cmp != -1 {
		t.Errorf("expected -1, got %d (err %v)", cmp, err)
	}

	ok, err := big.GreaterThanOrEqual(small)
	if err != nil || !ok {
		t.Errorf("expected big >= small")
	}

	equal := mustMoney(t, "2.00", "USD")
	if !big.Equal(equal) {
		t.Errorf("expected %s == %s", big, equal)
	}
}
