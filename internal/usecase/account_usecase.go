package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/infrastructure/metrics"
)

// AccountUseCase handles account lifecycle and read paths.
type AccountUseCase struct {
	accounts AccountStore
	users    UserDirectory
	locks    AccountLocker
	idGen    IDGenerator
	cache    AccountCache     // optional, nil means no read cache
	metrics  *metrics.Metrics // optional, nil means no metrics
}

// NewAccountUseCase creates a new AccountUseCase. cache may be nil.
func NewAccountUseCase(accounts AccountStore, users UserDirectory, locks AccountLocker, idGen IDGenerator, cache AccountCache) *AccountUseCase {
	return &AccountUseCase{
		accounts: accounts,
		users:    users,
		locks:    locks,
		idGen:    idGen,
		cache:    cache,
	}
}

// WithMetrics enables metrics recording.
func (uc *AccountUseCase) WithMetrics(m *metrics.Metrics) *AccountUseCase {
	uc.metrics = m
	return uc
}

// OpenAccountInput represents input for opening an account.
type OpenAccountInput struct {
	OwnerID  string
	Currency string
}

// OpenAccount creates a new active account with a zero balance for an
// existing owner. The account number is generated from crypto-grade
// randomness and collision-checked against the store.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	if _, err := uc.users.FindByID(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	number, err := uc.generateAccountNumber(ctx)
	if err != nil {
		return nil, err
	}

	account, err := domain.NewAccount(uc.idGen.Generate(), number, input.OwnerID, input.Currency, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := uc.accounts.Save(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsOpened.Inc()
		uc.metrics.AccountOperations.WithLabelValues("open").Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID. The read may be served from
// the cache; it is a display read, not a transactional one.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	if uc.cache != nil {
		if account, ok := uc.cache.Get(ctx, id); ok {
			if uc.metrics != nil {
				uc.metrics.CacheHits.Inc()
			}
			return account, nil
		}
		if uc.metrics != nil {
			uc.metrics.CacheMisses.Inc()
		}
	}

	account, err := uc.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, account)
	}

	return account, nil
}

// GetAccountByNumber retrieves an account by its external number.
func (uc *AccountUseCase) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	return uc.accounts.FindByNumber(ctx, number)
}

// ListAccountsByOwner lists all accounts owned by a user.
func (uc *AccountUseCase) ListAccountsByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	return uc.accounts.FindByOwner(ctx, ownerID)
}

// DeactivateAccount marks an account inactive. The balance is kept;
// accounts are never physically removed by the core.
func (uc *AccountUseCase) DeactivateAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.setActive(ctx, id, false)
}

// ActivateAccount re-activates a deactivated account.
func (uc *AccountUseCase) ActivateAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.setActive(ctx, id, true)
}

func (uc *AccountUseCase) setActive(ctx context.Context, id string, active bool) (*domain.Account, error) {
	release, err := uc.locks.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	account, err := uc.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if active {
		account.Activate(now)
	} else {
		account.Deactivate(now)
	}

	if err := uc.accounts.Save(ctx, account); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Invalidate(ctx, id)
	}

	if uc.metrics != nil {
		if active {
			uc.metrics.AccountOperations.WithLabelValues("activate").Inc()
		} else {
			uc.metrics.AccountOperations.WithLabelValues("deactivate").Inc()
		}
	}

	return account, nil
}

var accountNumberSpace = big.NewInt(10_000_000_000) // 10 digits

func (uc *AccountUseCase) generateAccountNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		n, err := rand.Int(rand.Reader, accountNumberSpace)
		if err != nil {
			return "", fmt.Errorf("generating account number: %w", err)
		}

		number := fmt.Sprintf("%010d", n)

		exists, err := uc.accounts.ExistsByNumber(ctx, number)
		if err != nil {
			return "", err
		}

		if !exists {
			return number, nil
		}
	}

	return "", fmt.Errorf("%w: exhausted %d generation attempts", domain.ErrDuplicateAccountNumber, maxNumberAttempts)
}
