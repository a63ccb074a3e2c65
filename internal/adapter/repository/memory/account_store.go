package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/usecase"
)

// AccountStore implements usecase.AccountStore in memory.
type AccountStore struct {
	db *DB
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(db *DB) *AccountStore {
	return &AccountStore{db: db}
}

// Save persists an account outside a transaction.
func (s *AccountStore) Save(ctx context.Context, account *domain.Account) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.accounts[account.ID] = account.Clone()

	return nil
}

// SaveTx stages an account write inside a transaction.
func (s *AccountStore) SaveTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	memTx, err := asMemoryTx(tx)
	if err != nil {
		return err
	}

	memTx.stageAccount(account)

	return nil
}

// FindByID retrieves an account by ID.
func (s *AccountStore) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	account, ok := s.db.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}

	return account.Clone(), nil
}

// FindByIDTx retrieves an account inside a transaction, seeing writes
// staged earlier in the same transaction.
func (s *AccountStore) FindByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	memTx, err := asMemoryTx(tx)
	if err != nil {
		return nil, err
	}

	if account, ok := memTx.stagedAccount(id); ok {
		return account, nil
	}

	return s.FindByID(ctx, id)
}

// FindByNumber retrieves an account by its external number.
func (s *AccountStore) FindByNumber(ctx context.Context, number string) (*domain.Account, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, account := range s.db.accounts {
		if account.Number == number {
			return account.Clone(), nil
		}
	}

	return nil, fmt.Errorf("%w: number %s", domain.ErrAccountNotFound, number)
}

// FindByOwner lists accounts owned by a user, oldest first.
func (s *AccountStore) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var out []*domain.Account
	for _, account := range s.db.accounts {
		if account.OwnerID == ownerID {
			out = append(out, account.Clone())
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

// ExistsByNumber reports whether an account with the number exists.
func (s *AccountStore) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, account := range s.db.accounts {
		if account.Number == number {
			return true, nil
		}
	}

	return false, nil
}
