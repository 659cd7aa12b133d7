package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// Runs only against a live server named by REDIS_TEST_ADDR.
func newTestCache(t *testing.T) *AccountCache {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	cache, err := OpenAccountCache(context.Background(), Config{Addr: addr, TTL: time.Minute})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestAccountCache_RoundTripWithoutHash(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	id := "cache-test-" + time.Now().Format("150405.000000000")
	acc := &domain.Account{ID: id, Name: "John", Email: "john@example.com", Age: 30, PasswordHash: "secret-hash", Role: domain.RoleUser}
	if err := cache.Set(ctx, acc); err != nil {
		t.Fatalf("set: %v", err)
	}
	t.Cleanup(func() { _ = cache.Invalidate(context.Background(), id) })

	got, ok, err := cache.Get(ctx, id)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.PasswordHash != "" {
		t.Fatal("cached account must not carry the password hash")
	}
	if got.Email != "john@example.com" || got.Role != domain.RoleUser {
		t.Fatalf("unexpected cached account: %+v", got)
	}

	if err := cache.Invalidate(ctx, id); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, id); ok {
		t.Fatal("expected miss after invalidate")
	}
}

func TestNewAccountCache_DefaultTTL(t *testing.T) {
	if c := NewAccountCache(nil, 0); c.ttl != defaultCacheTTL {
		t.Fatalf("expected default ttl, got %v", c.ttl)
	}
}

func TestClientOptions(t *testing.T) {
	opts := clientOptions(Config{Addr: "cache:6379", Password: "pw", DB: 2})
	if opts.Addr != "cache:6379" || opts.Password != "pw" || opts.DB != 2 {
		t.Fatalf("connection settings not carried over: %+v", opts)
	}
	if opts.ClientName != clientName {
		t.Fatalf("expected client name %q, got %q", clientName, opts.ClientName)
	}
	if opts.ReadTimeout != defaultOpTimeout || opts.WriteTimeout != defaultOpTimeout {
		t.Fatalf("expected default command timeout, got %v/%v", opts.ReadTimeout, opts.WriteTimeout)
	}

	if opts := clientOptions(Config{Timeout: time.Second}); opts.ReadTimeout != time.Second {
		t.Fatalf("explicit timeout ignored: %v", opts.ReadTimeout)
	}
}

func TestOpenAccountCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := OpenAccountCache(ctx, Config{Addr: "127.0.0.1:1"}); err == nil {
		t.Fatal("expected an error for an address nothing listens on")
	}
}
