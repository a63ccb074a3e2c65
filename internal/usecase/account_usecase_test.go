package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/usecase"
	"github.com/dcastano/walletcore/internal/usecase/mocks"
)

func testUser(t *testing.T) *domain.User {
	t.Helper()

	user, err := domain.NewUser("user-1", "Ana Torres", "ana@example.com", "CC-1002003004", time.Now().UTC())
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}

	return user
}

func TestAccountUseCase_OpenAccount(t *testing.T) {
	t.Run("creates active zero-balance account", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		accounts := mocks.NewMockAccountStore()
		users := mocks.NewMockUserDirectory(ctrl)
		users.EXPECT().FindByID(gomock.Any(), "user-1").Return(testUser(t), nil)

		uc := usecase.NewAccountUseCase(accounts, users, mocks.NewMockLocker(), mocks.NewMockIDGenerator(), nil)

		account, err := uc.OpenAccount(context.Background(), usecase.OpenAccountInput{
			OwnerID:  "user-1",
			Currency: "USD",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !account.Active || !account.Balance.IsZero() {
			t.Errorf("expected active zero-balance account, got %+v", account)
		}

		if err := domain.ValidateAccountNumber(account.Number); err != nil {
			t.Errorf("generated number invalid: %v", err)
		}

		stored, err := accounts.FindByID(context.Background(), account.ID)
		if err != nil {
			t.Fatalf("account not persisted: %v", err)
		}

		if stored.Number != account.Number {
			t.Errorf("stored number mismatch: %s vs %s", stored.Number, account.Number)
		}
	})

	t.Run("unknown owner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		users := mocks.NewMockUserDirectory(ctrl)
		users.EXPECT().FindByID(gomock.Any(), "ghost").Return(nil, domain.ErrUserNotFound)

		uc := usecase.NewAccountUseCase(mocks.NewMockAccountStore(), users, mocks.NewMockLocker(), mocks.NewMockIDGenerator(), nil)

		_, err := uc.OpenAccount(context.Background(), usecase.OpenAccountInput{
			OwnerID:  "ghost",
			Currency: "USD",
		})
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("retries colliding account numbers", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		accounts := mocks.NewMockAccountStore()

		collisions := 0
		accounts.ExistsByNumberFunc = func(ctx context.Context, number string) (bool, error) {
			collisions++
			return collisions <= 2, nil // first two candidates already taken
		}

		users := mocks.NewMockUserDirectory(ctrl)
		users.EXPECT().FindByID(gomock.Any(), "user-1").Return(testUser(t), nil)

		uc := usecase.NewAccountUseCase(accounts, users, mocks.NewMockLocker(), mocks.NewMockIDGenerator(), nil)

		_, err := uc.OpenAccount(context.Background(), usecase.OpenAccountInput{
			OwnerID:  "user-1",
			Currency: "USD",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if collisions != 3 {
			t.Errorf("expected 3 uniqueness checks, got %d", collisions)
		}
	})

	t.Run("gives up after exhausting attempts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		accounts := mocks.NewMockAccountStore()
		accounts.ExistsByNumberFunc = func(ctx context.Context, number string) (bool, error) {
			return true, nil
		}

		users := mocks.NewMockUserDirectory(ctrl)
		users.EXPECT().FindByID(gomock.Any(), "user-1").Return(testUser(t), nil)

		uc := usecase.NewAccountUseCase(accounts, users, mocks.NewMockLocker(), mocks.NewMockIDGenerator(), nil)

		_, err := uc.OpenAccount(context.Background(), usecase.OpenAccountInput{
			OwnerID:  "user-1",
			Currency: "USD",
		})
		if !errors.Is(err, domain.ErrDuplicateAccountNumber) {
			t.Fatalf("expected ErrDuplicateAccountNumber, got %v", err)
		}
	})

	t.Run("invalid currency", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		users := mocks.NewMockUserDirectory(ctrl)
		users.EXPECT().FindByID(gomock.Any(), "user-1").Return(testUser(t), nil)

		uc := usecase.NewAccountUseCase(mocks.NewMockAccountStore(), users, mocks.NewMockLocker(), mocks.NewMockIDGenerator(), nil)

		_, err := uc.OpenAccount(context.Background(), usecase.OpenAccountInput{
			OwnerID:  "user-1",
			Currency: "dollars",
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestAccountUseCase_GetAccount_Cache(t *testing.T) {
	accounts := mocks.NewMockAccountStore()
	cache := mocks.NewMockAccountCache()

	account, err := domain.NewAccount("acc-1", "0123456789", "user-1", "USD", time.Now().UTC())
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	accounts.Put(account)

	storeReads := 0
	accounts.FindByIDFunc = func(ctx context.Context, id string) (*domain.Account, error) {
		storeReads++
		return account.Clone(), nil
	}

	uc := usecase.NewAccountUseCase(accounts, nil, mocks.NewMockLocker(), mocks.NewMockIDGenerator(), cache)

	// First read hits the store and fills the cache.
	if _, err := uc.GetAccount(context.Background(), "acc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second read is served from the cache.
	if _, err := uc.GetAccount(context.Background(), "acc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if storeReads != 1 {
		t.Errorf("expected 1 store read, got %d", storeReads)
	}
}

func TestAccountUseCase_DeactivateActivate(t *testing.T) {
	accounts := mocks.NewMockAccountStore()

	account, err := domain.NewAccount("acc-1", "0123456789", "user-1", "USD", time.Now().UTC())
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	accounts.Put(account)

	cache := mocks.NewMockAccountCache()
	uc := usecase.NewAccountUseCase(accounts, nil, mocks.NewMockLocker(), mocks.NewMockIDGenerator(), cache)

	deactivated, err := uc.DeactivateAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deactivated.Active {
		t.Error("expected inactive account")
	}

	if len(cache.Invalidations) != 1 {
		t.Errorf("expected cache invalidation, got %v", cache.Invalidations)
	}

	activated, err := uc.ActivateAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !activated.Active {
		t.Error("expected active account")
	}

	if _, err := uc.DeactivateAccount(context.Background(), "ghost"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountUseCase_ListAccountsByOwner(t *testing.T) {
	accounts := mocks.NewMockAccountStore()

	for i := 0; i < 3; i++ {
		number := fmt.Sprintf("%010d", i)
		account, err := domain.NewAccount(fmt.Sprintf("acc-%d", i), number, "user-1", "USD", time.Now().UTC())
		if err != nil {
			t.Fatalf("NewAccount: %v", err)
		}
		accounts.Put(account)
	}

	uc := usecase.NewAccountUseCase(accounts, nil, mocks.NewMockLocker(), mocks.NewMockIDGenerator(), nil)

	owned, err := uc.ListAccountsByOwner(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(owned) != 3 {
		t.Errorf("expected 3 accounts, got %d", len(owned))
	}
}
