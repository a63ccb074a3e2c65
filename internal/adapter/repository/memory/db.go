// Package memory provides in-memory implementations of the store
// interfaces. All access is synchronized and tx-scoped writes are
// staged, then applied atomically on commit.
package memory

import (
	"sync"

	"github.com/dcastano/walletcore/internal/domain"
)

// DB is the shared in-memory state behind the memory stores.
type DB struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	entries  []*domain.LedgerEntry
	users    map[string]*domain.User
}

// NewDB creates an empty in-memory database.
func NewDB() *DB {
	return &DB{
		accounts: make(map[string]*domain.Account),
		users:    make(map[string]*domain.User),
	}
}

func cloneEntry(entry *domain.LedgerEntry) *domain.LedgerEntry {
	clone := *entry
	return &clone
}
