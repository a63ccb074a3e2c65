package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/dcastano/walletcore/internal/domain"
)

// UserDirectory implements usecase.UserDirectory over the in-memory
// user set. Users are seeded with Put; the wallet core does not manage
// their lifecycle.
type UserDirectory struct {
	db *DB
}

// NewUserDirectory creates a new UserDirectory.
func NewUserDirectory(db *DB) *UserDirectory {
	return &UserDirectory{db: db}
}

// Put adds or replaces a user.
func (d *UserDirectory) Put(user *domain.User) {
	d.db.mu.Lock()
	defer d.db.mu.Unlock()

	clone := *user
	d.db.users[user.ID] = &clone
}

// FindByID looks up a user by ID.
func (d *UserDirectory) FindByID(ctx context.Context, id string) (*domain.User, error) {
	d.db.mu.RLock()
	defer d.db.mu.RUnlock()

	user, ok := d.db.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", domain.ErrUserNotFound, id)
	}

	clone := *user

	return &clone, nil
}

// FindByEmail looks up a user by email, case-insensitively.
func (d *UserDirectory) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	d.db.mu.RLock()
	defer d.db.mu.RUnlock()

	needle := strings.ToLower(email)
	for _, user := range d.db.users {
		if strings.ToLower(user.Email) == needle {
			clone := *user
			return &clone, nil
		}
	}

	return nil, fmt.Errorf("%w: email %s", domain.ErrUserNotFound, email)
}
