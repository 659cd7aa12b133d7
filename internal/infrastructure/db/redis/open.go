package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	clientName         = "accounts-api"
	defaultDialTimeout = 2 * time.Second
	defaultOpTimeout   = 500 * time.Millisecond
)

// Config selects the Redis instance behind the account cache.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	// Timeout bounds each cache command. A slow cache is treated as a miss by
	// the services, so this stays well under the request budget.
	Timeout time.Duration
}

func clientOptions(cfg Config) *redis.Options {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   clientName,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		MaxRetries:   1,
	}
}

// OpenAccountCache dials Redis and refuses to return a cache that does not
// answer PING. Close the cache on shutdown.
func OpenAccountCache(ctx context.Context, cfg Config) (*AccountCache, error) {
	client := redis.NewClient(clientOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("account cache: ping %s: %w", cfg.Addr, err)
	}

	return NewAccountCache(client, cfg.TTL), nil
}
