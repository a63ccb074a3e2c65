package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/infrastructure/metrics"
)

// LedgerUseCase orchestrates all balance-affecting operations. It is
// the sole writer of accounts and ledger entries: every mutation takes
// the per-account lock, applies the change to an in-memory copy, and
// commits the account update together with its ledger entry as one
// transaction. Any failure discards the copy and leaves the stores
// exactly as they were.
type LedgerUseCase struct {
	txManager TransactionManager
	accounts  AccountStore
	entries   LedgerStore
	locks     AccountLocker
	idGen     IDGenerator
	retrier   Retrier          // optional, nil means no retry
	cache     AccountCache     // optional, nil means no read cache
	metrics   *metrics.Metrics // optional, nil means no metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. retrier and cache may
// be nil.
func NewLedgerUseCase(
	txManager TransactionManager,
	accounts AccountStore,
	entries LedgerStore,
	locks AccountLocker,
	idGen IDGenerator,
	retrier Retrier,
	cache AccountCache,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager: txManager,
		accounts:  accounts,
		entries:   entries,
		locks:     locks,
		idGen:     idGen,
		retrier:   retrier,
		cache:     cache,
	}
}

// WithMetrics enables metrics recording.
func (uc *LedgerUseCase) WithMetrics(m *metrics.Metrics) *LedgerUseCase {
	uc.metrics = m
	return uc
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	AccountID   string
	Amount      domain.MoneyValue
	Description string
}

// Deposit credits Amount to the account and appends a deposit entry.
func (uc *LedgerUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.LedgerEntry, error) {
	if input.AccountID == "" {
		return nil, fmt.Errorf("%w: account id is required", domain.ErrValidation)
	}

	start := time.Now()

	release, err := uc.locks.Acquire(ctx, input.AccountID)
	if err != nil {
		uc.observe("deposit", start, err)
		return nil, err
	}
	defer release()
	uc.observeLockWait(start)

	var entry *domain.LedgerEntry

	err = uc.withRetry(ctx, func() error {
		var txErr error
		entry, txErr = uc.applySingleLeg(ctx, domain.EntryDeposit, input.AccountID, input.Amount, input.Description)
		return txErr
	})
	if err != nil {
		uc.observe("deposit", start, err)
		return nil, err
	}

	uc.invalidate(ctx, input.AccountID)
	uc.observe("deposit", start, nil, entry)

	return entry, nil
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	AccountID   string
	Amount      domain.MoneyValue
	Description string
}

// Withdraw debits Amount from the account and appends a withdrawal
// entry. Insufficient funds abort before anything is persisted.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*domain.LedgerEntry, error) {
	if input.AccountID == "" {
		return nil, fmt.Errorf("%w: account id is required", domain.ErrValidation)
	}

	start := time.Now()

	release, err := uc.locks.Acquire(ctx, input.AccountID)
	if err != nil {
		uc.observe("withdraw", start, err)
		return nil, err
	}
	defer release()
	uc.observeLockWait(start)

	var entry *domain.LedgerEntry

	err = uc.withRetry(ctx, func() error {
		var txErr error
		entry, txErr = uc.applySingleLeg(ctx, domain.EntryWithdrawal, input.AccountID, input.Amount, input.Description)
		return txErr
	})
	if err != nil {
		uc.observe("withdraw", start, err)
		return nil, err
	}

	uc.invalidate(ctx, input.AccountID)
	uc.observe("withdraw", start, nil, entry)

	return entry, nil
}

// TransferInput represents input for a transfer between two accounts.
type TransferInput struct {
	SourceID      string
	DestinationID string
	Amount        domain.MoneyValue
	Description   string
}

// TransferResult holds the two linked entries of a completed transfer.
type TransferResult struct {
	OutEntry *domain.LedgerEntry
	InEntry  *domain.LedgerEntry
}

// Transfer moves Amount from the source account to the destination
// account. Both locks are held for the duration of both legs; both
// account updates and both entries commit as one unit or not at all.
func (uc *LedgerUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.SourceID == "" || input.DestinationID == "" {
		return nil, fmt.Errorf("%w: source and destination account ids are required", domain.ErrValidation)
	}

	if input.SourceID == input.DestinationID {
		return nil, fmt.Errorf("%w: account %s", domain.ErrSelfTransfer, input.SourceID)
	}

	start := time.Now()

	// The locker orders the two ids ascending regardless of argument
	// order, so opposite-direction transfers cannot deadlock.
	release, err := uc.locks.Acquire(ctx, input.SourceID, input.DestinationID)
	if err != nil {
		uc.observe("transfer", start, err)
		return nil, err
	}
	defer release()
	uc.observeLockWait(start)

	var result *TransferResult

	err = uc.withRetry(ctx, func() error {
		var txErr error
		result, txErr = uc.transferTx(ctx, input)
		return txErr
	})
	if err != nil {
		uc.observe("transfer", start, err)
		return nil, err
	}

	uc.invalidate(ctx, input.SourceID)
	uc.invalidate(ctx, input.DestinationID)
	uc.observe("transfer", start, nil, result.OutEntry, result.InEntry)

	return result, nil
}

// applySingleLeg runs one deposit or withdrawal as an atomic unit.
func (uc *LedgerUseCase) applySingleLeg(
	ctx context.Context,
	entryType domain.EntryType,
	accountID string,
	amount domain.MoneyValue,
	description string,
) (*domain.LedgerEntry, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accounts.FindByIDTx(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	balanceBefore := account.Balance

	var balanceAfter domain.MoneyValue
	if entryType.IsCredit() {
		balanceAfter, err = account.Deposit(amount, now)
	} else {
		balanceAfter, err = account.Withdraw(amount, now)
	}
	if err != nil {
		return nil, err
	}

	entry, err := domain.NewLedgerEntry(
		uc.idGen.Generate(), entryType, amount,
		account.ID, "", description,
		balanceBefore, balanceAfter, now,
	)
	if err != nil {
		return nil, err
	}

	if err := uc.accounts.SaveTx(ctx, tx, account); err != nil {
		return nil, err
	}

	if err := uc.entries.SaveTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *LedgerUseCase) transferTx(ctx context.Context, input TransferInput) (*TransferResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	source, err := uc.accounts.FindByIDTx(ctx, tx, input.SourceID)
	if err != nil {
		return nil, err
	}

	dest, err := uc.accounts.FindByIDTx(ctx, tx, input.DestinationID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	// Withdraw leg on the source. Failure here has touched nothing in
	// the stores.
	sourceBefore := source.Balance
	sourceAfter, err := source.Withdraw(input.Amount, now)
	if err != nil {
		return nil, err
	}

	// Deposit leg on the destination. Failure here discards the
	// in-memory source mutation along with the transaction.
	destBefore := dest.Balance
	destAfter, err := dest.Deposit(input.Amount, now)
	if err != nil {
		return nil, err
	}

	outEntry, err := domain.NewLedgerEntry(
		uc.idGen.Generate(), domain.EntryTransferOut, input.Amount,
		source.ID, dest.ID, input.Description,
		sourceBefore, sourceAfter, now,
	)
	if err != nil {
		return nil, err
	}

	inEntry, err := domain.NewLedgerEntry(
		uc.idGen.Generate(), domain.EntryTransferIn, input.Amount,
		dest.ID, source.ID, input.Description,
		destBefore, destAfter, now,
	)
	if err != nil {
		return nil, err
	}

	if err := uc.accounts.SaveTx(ctx, tx, source); err != nil {
		return nil, err
	}

	if err := uc.accounts.SaveTx(ctx, tx, dest); err != nil {
		return nil, err
	}

	if err := uc.entries.SaveTx(ctx, tx, outEntry); err != nil {
		return nil, err
	}

	if err := uc.entries.SaveTx(ctx, tx, inEntry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &TransferResult{OutEntry: outEntry, InEntry: inEntry}, nil
}

func (uc *LedgerUseCase) withRetry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}

	return uc.retrier.Retry(ctx, operation)
}

func (uc *LedgerUseCase) invalidate(ctx context.Context, accountID string) {
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, accountID)
	}
}

func (uc *LedgerUseCase) observe(operation string, start time.Time, err error, entries ...*domain.LedgerEntry) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		uc.metrics.OperationErrors.WithLabelValues(operation, errorLabel(err)).Inc()
		if errors.Is(err, domain.ErrLockTimeout) {
			uc.metrics.LockTimeouts.Inc()
		}
		return
	}

	for _, entry := range entries {
		uc.metrics.RecordEntry(entry)
	}
}

func (uc *LedgerUseCase) observeLockWait(start time.Time) {
	if uc.metrics != nil {
		uc.metrics.LockWaitDuration.Observe(time.Since(start).Seconds())
	}
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrAccountInactive):
		return "account_inactive"
	case errors.Is(err, domain.ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
