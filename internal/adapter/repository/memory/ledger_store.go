package memory

import (
	"context"
	"time"

	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/usecase"
)

// LedgerStore implements usecase.LedgerStore in memory. The ledger is
// append-only: entries are never updated or deleted.
type LedgerStore struct {
	db *DB
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(db *DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// SaveTx stages an entry append inside a transaction.
func (s *LedgerStore) SaveTx(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	memTx, err := asMemoryTx(tx)
	if err != nil {
		return err
	}

	memTx.stageEntry(entry)

	return nil
}

// FindByAccount lists entries for an account, newest first.
func (s *LedgerStore) FindByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	return s.filter(accountID, limit, offset, func(*domain.LedgerEntry) bool { return true })
}

// FindByAccountAndType lists entries of one type, newest first.
func (s *LedgerStore) FindByAccountAndType(ctx context.Context, accountID string, entryType domain.EntryType, limit, offset int) ([]*domain.LedgerEntry, error) {
	return s.filter(accountID, limit, offset, func(entry *domain.LedgerEntry) bool {
		return entry.Type == entryType
	})
}

// FindByAccountAndDateRange lists entries created in [from, to],
// newest first.
func (s *LedgerStore) FindByAccountAndDateRange(ctx context.Context, accountID string, from, to time.Time) ([]*domain.LedgerEntry, error) {
	// Date-range reports return the full window.
	return s.filter(accountID, -1, 0, func(entry *domain.LedgerEntry) bool {
		return !entry.CreatedAt.Before(from) && !entry.CreatedAt.After(to)
	})
}

func (s *LedgerStore) snapshot() []*domain.LedgerEntry {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]*domain.LedgerEntry, len(s.db.entries))
	copy(out, s.db.entries)

	return out
}

func (s *LedgerStore) filter(accountID string, limit, offset int, keep func(*domain.LedgerEntry) bool) ([]*domain.LedgerEntry, error) {
	entries := s.snapshot()

	var out []*domain.LedgerEntry
	skipped := 0

	// Entries are stored in commit order; walk backwards for newest
	// first. A negative limit means no limit.
	for i := len(entries) - 1; i >= 0 && (limit < 0 || len(out) < limit); i-- {
		entry := entries[i]
		if entry.AccountID != accountID || !keep(entry) {
			continue
		}

		if skipped < offset {
			skipped++
			continue
		}

		out = append(out, cloneEntry(entry))
	}

	return out, nil
}
