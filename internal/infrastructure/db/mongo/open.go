package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	appName               = "accounts-api"
	defaultConnectTimeout = 10 * time.Second
)

// Config selects the MongoDB deployment and database holding the users
// collection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func clientOptions(cfg Config) *options.ClientOptions {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout).
		SetTimeout(timeout)
}

// OpenAccountRepository connects, pings and creates the users indexes
// before handing back the repository. Close disconnects the client.
func OpenAccountRepository(ctx context.Context, cfg Config) (*AccountRepository, error) {
	opts := clientOptions(cfg)

	connectCtx, cancel := context.WithTimeout(ctx, *opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("account store: connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("account store: ping: %w", err)
	}

	repo := NewAccountRepository(client.Database(cfg.Database))
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("account store: indexes: %w", err)
	}
	return repo, nil
}

// Close disconnects the underlying client.
func (r *AccountRepository) Close(ctx context.Context) error {
	return r.coll.Database().Client().Disconnect(ctx)
}
