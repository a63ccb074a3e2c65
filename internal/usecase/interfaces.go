package usecase

import (
	"context"
	"time"

	"github.com/dcastano/walletcore/internal/domain"
)

// AccountStore defines data access for accounts. Stores only persist
// and retrieve; they never mutate domain state.
type AccountStore interface {
	Save(ctx context.Context, account *domain.Account) error
	SaveTx(ctx context.Context, tx Transaction, account *domain.Account) error
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByIDTx(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	FindByNumber(ctx context.Context, number string) (*domain.Account, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}

// LedgerStore defines data access for the append-only ledger.
type LedgerStore interface {
	SaveTx(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	FindByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	FindByAccountAndType(ctx context.Context, accountID string, entryType domain.EntryType, limit, offset int) ([]*domain.LedgerEntry, error)
	FindByAccountAndDateRange(ctx context.Context, accountID string, from, to time.Time) ([]*domain.LedgerEntry, error)
}

// UserDirectory resolves account owners. User management itself lives
// outside this module.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Transaction represents one atomic unit of persistence: the account
// state updates and their ledger entries commit or roll back together.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// AccountLocker serializes mutating operations per account. Acquire
// takes every requested lock or none; implementations must impose a
// total order on lock acquisition so concurrent opposite-direction
// transfers cannot deadlock.
type AccountLocker interface {
	Acquire(ctx context.Context, accountIDs ...string) (release func(), err error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient persistence failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// AccountCache is a best-effort read cache for display reads. Reads
// feeding transactional decisions never go through it.
type AccountCache interface {
	Get(ctx context.Context, id string) (*domain.Account, bool)
	Set(ctx context.Context, account *domain.Account)
	Invalidate(ctx context.Context, id string)
}
