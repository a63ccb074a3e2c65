// Package testutil wires a complete wallet core over the in-memory
// store for integration tests. No external services are required.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcastano/walletcore/internal/adapter/repository/memory"
	"github.com/dcastano/walletcore/internal/adapter/repository/postgres"
	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/usecase"
)

// DefaultOwnerID is the user every Env is seeded with.
const DefaultOwnerID = "owner-1"

// Env is a fully wired wallet core backed by the in-memory store.
type Env struct {
	DB       *memory.DB
	Accounts *memory.AccountStore
	Entries  *memory.LedgerStore
	Users    *memory.UserDirectory

	AccountUC *usecase.AccountUseCase
	LedgerUC  *usecase.LedgerUseCase
	EntryUC   *usecase.EntryUseCase

	t *testing.T
}

// NewEnv builds the wallet core with a single seeded owner.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	db := memory.NewDB()
	accounts := memory.NewAccountStore(db)
	entries := memory.NewLedgerStore(db)
	users := memory.NewUserDirectory(db)
	txManager := memory.NewTxManager(db)
	locks := usecase.NewLockManager(5 * time.Second)
	idGen := postgres.NewULIDGenerator()

	owner, err := domain.NewUser(DefaultOwnerID, "Integration Owner", "owner@example.com", "12345678900", time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to build owner: %v", err)
	}
	users.Put(owner)

	return &Env{
		DB:        db,
		Accounts:  accounts,
		Entries:   entries,
		Users:     users,
		AccountUC: usecase.NewAccountUseCase(accounts, users, locks, idGen, nil),
		LedgerUC:  usecase.NewLedgerUseCase(txManager, accounts, entries, locks, idGen, nil, nil),
		EntryUC:   usecase.NewEntryUseCase(entries),
		t:         t,
	}
}

// OpenAccount opens an account for the default owner.
func (e *Env) OpenAccount(ctx context.Context, currency string) *domain.Account {
	e.t.Helper()

	account, err := e.AccountUC.OpenAccount(ctx, usecase.OpenAccountInput{
		OwnerID:  DefaultOwnerID,
		Currency: currency,
	})
	if err != nil {
		e.t.Fatalf("failed to open account: %v", err)
	}
	return account
}

// OpenAccountWithBalance opens an account and deposits an initial
// balance through the ledger so the entry trail stays consistent.
func (e *Env) OpenAccountWithBalance(ctx context.Context, currency, amount string) *domain.Account {
	e.t.Helper()

	account := e.OpenAccount(ctx, currency)
	e.Deposit(ctx, account.ID, currency, amount)

	fresh, err := e.Accounts.FindByID(ctx, account.ID)
	if err != nil {
		e.t.Fatalf("failed to reload account: %v", err)
	}
	return fresh
}

// Deposit credits amount to the account.
func (e *Env) Deposit(ctx context.Context, accountID, currency, amount string) *domain.LedgerEntry {
	e.t.Helper()

	entry, err := e.LedgerUC.Deposit(ctx, usecase.DepositInput{
		AccountID: accountID,
		Amount:    e.Money(currency, amount),
	})
	if err != nil {
		e.t.Fatalf("failed to deposit: %v", err)
	}
	return entry
}

// Money builds a MoneyValue or fails the test.
func (e *Env) Money(currency, amount string) domain.MoneyValue {
	e.t.Helper()

	m, err := domain.NewMoneyValueFromString(amount, currency)
	if err != nil {
		e.t.Fatalf("failed to parse money %q %s: %v", amount, currency, err)
	}
	return m
}

// Balance reloads the account and returns its balance as a decimal.
func (e *Env) Balance(ctx context.Context, accountID string) decimal.Decimal {
	e.t.Helper()

	account, err := e.Accounts.FindByID(ctx, accountID)
	if err != nil {
		e.t.Fatalf("failed to reload account %s: %v", accountID, err)
	}
	return account.Balance.Amount()
}

// EntryCount returns the number of ledger entries for an account.
func (e *Env) EntryCount(ctx context.Context, accountID string) int {
	e.t.Helper()

	entries, err := e.Entries.FindByAccount(ctx, accountID, 10000, 0)
	if err != nil {
		e.t.Fatalf("failed to list entries for %s: %v", accountID, err)
	}
	return len(entries)
}
