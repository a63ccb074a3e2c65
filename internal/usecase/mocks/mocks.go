// Package mocks provides test doubles for the usecase interfaces.
package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/usecase"
)

// MockAccountStore is a map-backed mock of AccountStore. Individual
// methods can be overridden through the Func fields.
type MockAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	SaveFunc           func(ctx context.Context, account *domain.Account) error
	SaveTxFunc         func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	FindByIDFunc       func(ctx context.Context, id string) (*domain.Account, error)
	FindByIDTxFunc     func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	FindByNumberFunc   func(ctx context.Context, number string) (*domain.Account, error)
	FindByOwnerFunc    func(ctx context.Context, ownerID string) ([]*domain.Account, error)
	ExistsByNumberFunc func(ctx context.Context, number string) (bool, error)
}

func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{
		accounts: make(map[string]*domain.Account),
	}
}

// Put seeds an account directly, bypassing Save hooks.
func (m *MockAccountStore) Put(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account.Clone()
}

func (m *MockAccountStore) Save(ctx context.Context, account *domain.Account) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account.Clone()
	return nil
}

func (m *MockAccountStore) SaveTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.SaveTxFunc != nil {
		return m.SaveTxFunc(ctx, tx, account)
	}
	return m.Save(ctx, account)
}

func (m *MockAccountStore) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if account, ok := m.accounts[id]; ok {
		return account.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
}

func (m *MockAccountStore) FindByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.FindByIDTxFunc != nil {
		return m.FindByIDTxFunc(ctx, tx, id)
	}
	return m.FindByID(ctx, id)
}

func (m *MockAccountStore) FindByNumber(ctx context.Context, number string) (*domain.Account, error) {
	if m.FindByNumberFunc != nil {
		return m.FindByNumberFunc(ctx, number)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, account := range m.accounts {
		if account.Number == number {
			return account.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: number %s", domain.ErrAccountNotFound, number)
}

func (m *MockAccountStore) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	if m.FindByOwnerFunc != nil {
		return m.FindByOwnerFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Account
	for _, account := range m.accounts {
		if account.OwnerID == ownerID {
			out = append(out, account.Clone())
		}
	}
	return out, nil
}

func (m *MockAccountStore) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	if m.ExistsByNumberFunc != nil {
		return m.ExistsByNumberFunc(ctx, number)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, account := range m.accounts {
		if account.Number == number {
			return true, nil
		}
	}
	return false, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu      sync.Mutex
	counter int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockLocker is an AccountLocker that always grants the lock.
type MockLocker struct {
	AcquireFunc func(ctx context.Context, accountIDs ...string) (func(), error)
}

func NewMockLocker() *MockLocker {
	return &MockLocker{}
}

func (m *MockLocker) Acquire(ctx context.Context, accountIDs ...string) (func(), error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, accountIDs...)
	}
	return func() {}, nil
}

// MockAccountCache is a map-backed mock of AccountCache.
type MockAccountCache struct {
	mu   sync.RWMutex
	data map[string]*domain.Account

	Invalidations []string
}

func NewMockAccountCache() *MockAccountCache {
	return &MockAccountCache{
		data: make(map[string]*domain.Account),
	}
}

func (m *MockAccountCache) Get(ctx context.Context, id string) (*domain.Account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.data[id]
	if !ok {
		return nil, false
	}
	return account.Clone(), true
}

func (m *MockAccountCache) Set(ctx context.Context, account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[account.ID] = account.Clone()
}

func (m *MockAccountCache) Invalidate(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	m.Invalidations = append(m.Invalidations, id)
}
