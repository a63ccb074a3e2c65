package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dcastano/walletcore/internal/domain"
)

// AccountCache implements usecase.AccountCache using Redis. The cache
// is best effort: any Redis or codec failure degrades to a miss and
// never fails the calling operation.
type AccountCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

// NewAccountCache creates a new AccountCache.
func NewAccountCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *AccountCache {
	return &AccountCache{
		client: client,
		prefix: "account:",
		ttl:    ttl,
		logger: logger,
	}
}

// accountDoc is the cache wire form. Balance travels as a string so
// the decimal survives the round trip exactly.
type accountDoc struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	OwnerID   string    `json:"owner_id"`
	Currency  string    `json:"currency"`
	Balance   string    `json:"balance"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Get retrieves a cached account. A miss, an unreachable Redis, and a
// corrupt document all report (nil, false).
func (c *AccountCache) Get(ctx context.Context, id string) (*domain.Account, bool) {
	raw, err := c.client.Get(ctx, c.prefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug().Err(err).Str("account_id", id).Msg("account cache read failed")
		}
		return nil, false
	}

	var doc accountDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		c.logger.Warn().Err(err).Str("account_id", id).Msg("dropping corrupt account cache document")
		c.Invalidate(ctx, id)
		return nil, false
	}

	balance, err := domain.NewMoneyValueFromString(doc.Balance, doc.Currency)
	if err != nil {
		c.logger.Warn().Err(err).Str("account_id", id).Msg("dropping corrupt account cache document")
		c.Invalidate(ctx, id)
		return nil, false
	}

	return domain.RehydrateAccount(doc.ID, doc.Number, doc.OwnerID, balance, doc.Active, doc.CreatedAt, doc.UpdatedAt), true
}

// Set caches an account with the configured TTL.
func (c *AccountCache) Set(ctx context.Context, account *domain.Account) {
	doc := accountDoc{
		ID:        account.ID,
		Number:    account.Number,
		OwnerID:   account.OwnerID,
		Currency:  account.Balance.Currency(),
		Balance:   account.Balance.Amount().StringFixed(domain.MoneyScale),
		Active:    account.Active,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		c.logger.Warn().Err(err).Str("account_id", account.ID).Msg("account cache encode failed")
		return
	}

	if err := c.client.Set(ctx, c.prefix+account.ID, raw, c.ttl).Err(); err != nil {
		c.logger.Debug().Err(err).Str("account_id", account.ID).Msg("account cache write failed")
	}
}

// Invalidate removes a cached account. Called after every balance or
// lifecycle change so stale reads expire immediately.
func (c *AccountCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, c.prefix+id).Err(); err != nil {
		c.logger.Debug().Err(err).Str("account_id", id).Msg("account cache invalidate failed")
	}
}
