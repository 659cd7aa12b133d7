// @title           Accounts API
// @version         1.0
// @description     User accounts with JWT authentication and USER/ADMIN role-based access.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/accounts-api/internal/api"
	"github.com/userhub/accounts-api/internal/api/handler"
	"github.com/userhub/accounts-api/internal/core/ports"
	"github.com/userhub/accounts-api/internal/core/service"
	"github.com/userhub/accounts-api/internal/infrastructure/config"
	mongostore "github.com/userhub/accounts-api/internal/infrastructure/db/mongo"
	rediscache "github.com/userhub/accounts-api/internal/infrastructure/db/redis"
	"github.com/userhub/accounts-api/internal/infrastructure/db/sqlite"
	"github.com/userhub/accounts-api/internal/infrastructure/queue"
	"github.com/userhub/accounts-api/internal/infrastructure/security"
	"github.com/userhub/accounts-api/pkg/logger"
)

const (
	serviceName     = "accounts-api"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: serviceName,
		Env:     cfg.Env,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	probes := make(map[string]handler.Pinger)

	repo, closeStore, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer closeStore()
	probes[cfg.Store.Driver] = repo

	var cache ports.AccountCache
	if cfg.Redis.Addr != "" {
		accountCache, err := rediscache.OpenAccountCache(ctx, rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.CacheTTL,
		})
		if err != nil {
			return err
		}
		defer func() { _ = accountCache.Close() }()

		cache = accountCache
		probes["redis"] = accountCache
		log.Info().Str("addr", cfg.Redis.Addr).Msg("account cache enabled")
	}

	pool := queue.NewHashPool(cfg.Auth.HashWorkers, security.NewBcryptHasher(cfg.Auth.BcryptCost), log)
	pool.Start(ctx)
	defer pool.Stop()

	tokens := security.NewTokenService(cfg.Auth.JWTSecret)
	accounts := service.NewAccountService(repo, pool, cache, log)
	auth := service.NewAuthService(repo, pool, tokens, cfg.Auth.TokenTTL, log)

	if err := accounts.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return err
	}

	e := api.NewRouter(api.Dependencies{
		Auth:     auth,
		Accounts: accounts,
		Tokens:   tokens,
		Probes:   probes,
		Log:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("http server listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// store is what the services and the readiness probe need from the
// Credential Store.
type store interface {
	ports.AccountRepository
	handler.Pinger
}

// openStore builds the configured Credential Store and returns a func that
// releases its connection.
func openStore(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (store, func(), error) {
	switch cfg.Driver {
	case config.StoreMongo:
		repo, err := mongostore.OpenAccountRepository(ctx, mongostore.Config{URI: cfg.MongoURI, Database: cfg.MongoDB})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = repo.Close(disconnectCtx)
		}
		log.Info().Str("database", cfg.MongoDB).Msg("using mongo store")
		return repo, closeFn, nil

	default:
		db, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.SQLitePath})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("using sqlite store")
		return sqlite.NewAccountRepository(db), func() { _ = db.Close() }, nil
	}
}
