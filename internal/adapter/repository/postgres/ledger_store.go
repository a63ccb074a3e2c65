package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/usecase"
)

// LedgerStore implements usecase.LedgerStore on PostgreSQL. Rows are
// insert-only; there is no update or delete path.
type LedgerStore struct {
	pool *pgxpool.Pool
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

const entryColumns = `id, account_id, entry_type, amount, currency, counterpart_id, description, balance_before, balance_after, created_at`

// SaveTx inserts a ledger entry inside a transaction.
func (s *LedgerStore) SaveTx(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgTx, err := asPgxTx(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ledger_entries (id, account_id, entry_type, amount, currency, counterpart_id, description, balance_before, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var counterpart *string
	if entry.CounterpartID != "" {
		counterpart = &entry.CounterpartID
	}

	_, err = pgTx.Exec(ctx, query,
		entry.ID,
		entry.AccountID,
		string(entry.Type),
		decimalToNumeric(entry.Amount.Amount()),
		entry.Amount.Currency(),
		counterpart,
		entry.Description,
		decimalToNumeric(entry.BalanceBefore.Amount()),
		decimalToNumeric(entry.BalanceAfter.Amount()),
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// FindByAccount lists entries for an account, newest first.
func (s *LedgerStore) FindByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	return s.list(ctx, query, accountID, limit, offset)
}

// FindByAccountAndType lists entries of one type, newest first.
func (s *LedgerStore) FindByAccountAndType(ctx context.Context, accountID string, entryType domain.EntryType, limit, offset int) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE account_id = $1 AND entry_type = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`

	return s.list(ctx, query, accountID, string(entryType), limit, offset)
}

// FindByAccountAndDateRange lists entries created in [from, to],
// newest first.
func (s *LedgerStore) FindByAccountAndDateRange(ctx context.Context, accountID string, from, to time.Time) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE account_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at DESC, id DESC
	`

	return s.list(ctx, query, accountID, timeToPgTimestamptz(from), timeToPgTimestamptz(to))
}

func (s *LedgerStore) list(ctx context.Context, query string, args ...any) ([]*domain.LedgerEntry, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		id, accountID, entryType, currency, description string
		counterpart                                     *string
		amount, balanceBefore, balanceAfter             pgtype.Numeric
		createdAt                                       pgtype.Timestamptz
	)

	err := row.Scan(&id, &accountID, &entryType, &amount, &currency, &counterpart, &description, &balanceBefore, &balanceAfter, &createdAt)
	if err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:          id,
		Type:        domain.EntryType(entryType),
		AccountID:   accountID,
		Description: description,
		CreatedAt:   createdAt.Time,
	}

	if counterpart != nil {
		entry.CounterpartID = *counterpart
	}

	if entry.Amount, err = domain.NewMoneyValue(numericToDecimal(amount), currency); err != nil {
		return nil, fmt.Errorf("corrupt ledger row %s: %w", id, err)
	}

	if entry.BalanceBefore, err = domain.NewMoneyValue(numericToDecimal(balanceBefore), currency); err != nil {
		return nil, fmt.Errorf("corrupt ledger row %s: %w", id, err)
	}

	if entry.BalanceAfter, err = domain.NewMoneyValue(numericToDecimal(balanceAfter), currency); err != nil {
		return nil, fmt.Errorf("corrupt ledger row %s: %w", id, err)
	}

	return entry, nil
}
