package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userhub/accounts-api/internal/core/domain"
)

const defaultCacheTTL = 5 * time.Minute

// AccountCache keeps sanitized accounts in Redis.
// Key format: account:<id>
type AccountCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAccountCache wraps client. A non-positive ttl uses defaultCacheTTL.
func NewAccountCache(client *redis.Client, ttl time.Duration) *AccountCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &AccountCache{client: client, ttl: ttl}
}

// Get returns the cached account, or ok=false on a miss.
func (c *AccountCache) Get(ctx context.Context, id string) (*domain.Account, bool, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var acc domain.Account
	if err := json.Unmarshal(raw, &acc); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return &acc, true, nil
}

// Set stores the sanitized form of account; the password hash is never written.
func (c *AccountCache) Set(ctx context.Context, account *domain.Account) error {
	raw, err := json.Marshal(account.Sanitized())
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(account.ID), raw, c.ttl).Err()
}

// Invalidate drops the entry for id.
func (c *AccountCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

// Close releases the connection pool.
func (c *AccountCache) Close() error {
	return c.client.Close()
}

// Ping reports whether Redis is reachable.
func (c *AccountCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *AccountCache) key(id string) string {
	return "account:" + id
}
