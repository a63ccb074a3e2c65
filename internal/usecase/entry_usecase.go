package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dcastano/walletcore/internal/domain"
)

// EntryUseCase handles ledger history queries. These are display
// reads: they never take the account write lock.
type EntryUseCase struct {
	entries LedgerStore
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entries LedgerStore) *EntryUseCase {
	return &EntryUseCase{entries: entries}
}

// ListByAccountInput represents input for listing entries.
type ListByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListByAccount lists entries for an account, newest first.
func (uc *EntryUseCase) ListByAccount(ctx context.Context, input ListByAccountInput) ([]*domain.LedgerEntry, error) {
	limit, offset := clampPage(input.Limit, input.Offset)

	return uc.entries.FindByAccount(ctx, input.AccountID, limit, offset)
}

// ListByAccountAndType lists entries of one type for an account.
func (uc *EntryUseCase) ListByAccountAndType(ctx context.Context, input ListByAccountInput, entryType domain.EntryType) ([]*domain.LedgerEntry, error) {
	if !entryType.IsValid() {
		return nil, fmt.Errorf("%w: unknown entry type %q", domain.ErrValidation, entryType)
	}

	limit, offset := clampPage(input.Limit, input.Offset)

	return uc.entries.FindByAccountAndType(ctx, input.AccountID, entryType, limit, offset)
}

// ListByDateRange lists entries for an account between two instants.
func (uc *EntryUseCase) ListByDateRange(ctx context.Context, accountID string, from, to time.Time) ([]*domain.LedgerEntry, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: date range end precedes start", domain.ErrValidation)
	}

	return uc.entries.FindByAccountAndDateRange(ctx, accountID, from, to)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
