package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// stubHasher records the peak number of concurrent calls.
type stubHasher struct {
	active int32
	peak   int32
	delay  time.Duration
}

func (s *stubHasher) enter() {
	n := atomic.AddInt32(&s.active, 1)
	for {
		p := atomic.LoadInt32(&s.peak)
		if n <= p || atomic.CompareAndSwapInt32(&s.peak, p, n) {
			break
		}
	}
	time.Sleep(s.delay)
	atomic.AddInt32(&s.active, -1)
}

func (s *stubHasher) Hash(password string) (string, error) {
	s.enter()
	return "hashed:" + password, nil
}

func (s *stubHasher) Verify(password, hash string) (bool, error) {
	s.enter()
	return hash == "hashed:"+password, nil
}

func TestHashPool_DelegatesToInner(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := NewHashPool(2, &stubHasher{}, zerolog.Nop())
	pool.Start(ctx)
	defer pool.Stop()

	h, err := pool.Hash("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h != "hashed:password123" {
		t.Fatalf("unexpected hash: %s", h)
	}
	if ok, err := pool.Verify("password123", h); err != nil || !ok {
		t.Fatalf("expected verify to succeed, got %v, %v", ok, err)
	}
	if ok, err := pool.Verify("wrong", h); err != nil || ok {
		t.Fatalf("expected verify to fail without error, got %v, %v", ok, err)
	}
}

func TestHashPool_BoundsConcurrency(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inner := &stubHasher{delay: 10 * time.Millisecond}
	pool := NewHashPool(2, inner, zerolog.Nop())
	pool.Start(ctx)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = pool.Hash("pw")
		}()
	}
	wg.Wait()

	if peak := atomic.LoadInt32(&inner.peak); peak > 2 {
		t.Fatalf("expected at most 2 concurrent hashes, saw %d", peak)
	}
}

func TestHashPool_StoppedPool(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewHashPool(1, &stubHasher{}, zerolog.Nop())
	pool.Start(ctx)
	cancel()
	pool.Stop()

	if _, err := pool.Hash("pw"); err != ErrPoolStopped {
		t.Fatalf("expected ErrPoolStopped, got %v", err)
	}
	ok, err := pool.Verify("pw", "hashed:pw")
	if err != ErrPoolStopped {
		t.Fatalf("expected ErrPoolStopped from verify, got %v", err)
	}
	if ok {
		t.Fatal("stopped pool must not verify")
	}
}

func TestNewHashPool_DefaultWorkers(t *testing.T) {
	pool := NewHashPool(0, &stubHasher{}, zerolog.Nop())
	if pool.workers != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, pool.workers)
	}
}
