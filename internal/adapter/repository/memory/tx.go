package memory

import (
	"context"
	"fmt"

	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/usecase"
)

// TxManager implements usecase.TransactionManager over a memory DB.
type TxManager struct {
	db *DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *DB) *TxManager {
	return &TxManager{db: db}
}

// Begin starts a new staged transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	return &Tx{
		db:       m.db,
		accounts: make(map[string]*domain.Account),
	}, nil
}

// Tx stages writes until Commit applies them to the DB in one step.
// Rollback simply discards the staged state, so a failed operation is
// never observable.
type Tx struct {
	db       *DB
	accounts map[string]*domain.Account
	entries  []*domain.LedgerEntry
	done     bool
}

// Commit applies all staged writes atomically.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return fmt.Errorf("memory: transaction already finished")
	}
	t.done = true

	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	for id, account := range t.accounts {
		t.db.accounts[id] = account.Clone()
	}

	for _, entry := range t.entries {
		t.db.entries = append(t.db.entries, cloneEntry(entry))
	}

	return nil
}

// Rollback discards staged writes. Calling it after Commit is a no-op,
// matching the defer-rollback pattern used by the use cases.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true

	t.accounts = nil
	t.entries = nil

	return nil
}

func (t *Tx) stageAccount(account *domain.Account) {
	t.accounts[account.ID] = account.Clone()
}

func (t *Tx) stagedAccount(id string) (*domain.Account, bool) {
	account, ok := t.accounts[id]
	if !ok {
		return nil, false
	}

	return account.Clone(), true
}

func (t *Tx) stageEntry(entry *domain.LedgerEntry) {
	t.entries = append(t.entries, cloneEntry(entry))
}

func asMemoryTx(tx usecase.Transaction) (*Tx, error) {
	memTx, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("memory: unexpected transaction type %T", tx)
	}

	return memTx, nil
}
