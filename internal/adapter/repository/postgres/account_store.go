package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/usecase"
)

// AccountStore implements usecase.AccountStore on PostgreSQL.
type AccountStore struct {
	pool *pgxpool.Pool
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(pool *pgxpool.Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

const accountColumns = `id, number, owner_id, currency, balance, active, created_at, updated_at`

// Save inserts or updates an account outside a transaction.
func (s *AccountStore) Save(ctx context.Context, account *domain.Account) error {
	_, err := s.pool.Exec(ctx, upsertAccountSQL, upsertAccountArgs(account)...)

	return err
}

// SaveTx inserts or updates an account inside a transaction.
func (s *AccountStore) SaveTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	pgTx, err := asPgxTx(tx)
	if err != nil {
		return err
	}

	_, err = pgTx.Exec(ctx, upsertAccountSQL, upsertAccountArgs(account)...)

	return err
}

// FindByID retrieves an account by ID.
func (s *AccountStore) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	return s.scanOne(s.pool.QueryRow(ctx, query, id), id)
}

// FindByIDTx retrieves an account inside a transaction with a row
// lock, so concurrent writers on the same account serialize at the
// database as well.
func (s *AccountStore) FindByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	pgTx, err := asPgxTx(tx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	return s.scanOne(pgTx.QueryRow(ctx, query, id), id)
}

// FindByNumber retrieves an account by its external number.
func (s *AccountStore) FindByNumber(ctx context.Context, number string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE number = $1`

	return s.scanOne(s.pool.QueryRow(ctx, query, number), number)
}

// FindByOwner lists accounts owned by a user, oldest first.
func (s *AccountStore) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// ExistsByNumber reports whether an account with the number exists.
func (s *AccountStore) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool

	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE number = $1)`, number).Scan(&exists)

	return exists, err
}

const upsertAccountSQL = `
	INSERT INTO accounts (id, number, owner_id, currency, balance, active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE SET
		balance = EXCLUDED.balance,
		active = EXCLUDED.active,
		updated_at = EXCLUDED.updated_at
`

func upsertAccountArgs(account *domain.Account) []any {
	return []any{
		account.ID,
		account.Number,
		account.OwnerID,
		account.Balance.Currency(),
		decimalToNumeric(account.Balance.Amount()),
		account.Active,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	}
}

func (s *AccountStore) scanOne(row pgx.Row, key string) (*domain.Account, error) {
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, key)
		}

		return nil, err
	}

	return account, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		id, number, ownerID, currency string
		balance                       pgtype.Numeric
		active                        bool
		createdAt, updatedAt          pgtype.Timestamptz
	)

	if err := row.Scan(&id, &number, &ownerID, &currency, &balance, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	money, err := domain.NewMoneyValue(numericToDecimal(balance), currency)
	if err != nil {
		return nil, fmt.Errorf("corrupt account row %s: %w", id, err)
	}

	return domain.RehydrateAccount(id, number, ownerID, money, active, createdAt.Time, updatedAt.Time), nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func errUnexpectedTx(tx usecase.Transaction) error {
	return fmt.Errorf("postgres: unexpected transaction type %T", tx)
}
