package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dcastano/walletcore/internal/domain"
)

// UserDirectory implements usecase.UserDirectory on PostgreSQL.
type UserDirectory struct {
	pool *pgxpool.Pool
}

// NewUserDirectory creates a new UserDirectory.
func NewUserDirectory(pool *pgxpool.Pool) *UserDirectory {
	return &UserDirectory{pool: pool}
}

// Save inserts or updates a user. Exposed for seeding and tooling;
// the wallet core itself only reads users.
func (d *UserDirectory) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, document, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			document = EXCLUDED.document,
			active = EXCLUDED.active
	`

	_, err := d.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Document,
		user.Active,
		timeToPgTimestamptz(user.CreatedAt),
	)

	return err
}

// FindByID retrieves a user by ID.
func (d *UserDirectory) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, name, email, document, active, created_at FROM users WHERE id = $1`

	return d.scanOne(d.pool.QueryRow(ctx, query, id), id)
}

// FindByEmail retrieves a user by email, case-insensitively.
func (d *UserDirectory) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, name, email, document, active, created_at FROM users WHERE lower(email) = lower($1)`

	return d.scanOne(d.pool.QueryRow(ctx, query, email), email)
}

func (d *UserDirectory) scanOne(row pgx.Row, key string) (*domain.User, error) {
	var (
		user      domain.User
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Document, &user.Active, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, key)
		}

		return nil, err
	}

	user.CreatedAt = createdAt.Time

	return &user, nil
}
