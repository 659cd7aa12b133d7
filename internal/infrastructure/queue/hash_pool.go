package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/accounts-api/internal/api/metrics"
	"github.com/userhub/accounts-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// ErrPoolStopped is returned by Hash and Verify once the pool has been
// stopped.
var ErrPoolStopped = errors.New("hash pool stopped")

type jobKind int

const (
	jobHash jobKind = iota
	jobVerify
)

type hashJob struct {
	kind     jobKind
	password string
	hash     string
	result   chan hashResult
}

type hashResult struct {
	hash  string
	match bool
	err   error
}

// HashPool runs password hashing on a fixed set of workers so that bursts of
// logins or account writes cannot occupy every CPU. It implements
// ports.PasswordHasher by delegating to an inner hasher.
type HashPool struct {
	jobs    chan hashJob
	inner   ports.PasswordHasher
	workers int
	log     zerolog.Logger

	stopped  chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewHashPool creates a pool with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewHashPool(numWorkers int, inner ports.PasswordHasher, log zerolog.Logger) *HashPool {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &HashPool{
		jobs:    make(chan hashJob, channelBuffer),
		inner:   inner,
		workers: numWorkers,
		log:     log,
		stopped: make(chan struct{}),
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled
// or Stop is called.
func (p *HashPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
	go func() {
		select {
		case <-ctx.Done():
			p.Stop()
		case <-p.stopped:
		}
	}()
	p.log.Debug().Int("workers", p.workers).Msg("hash pool started")
}

// Stop signals every worker to exit and waits for them.
func (p *HashPool) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopped)
	})
	p.wg.Wait()
}

// Hash hashes password on a pool worker.
func (p *HashPool) Hash(password string) (string, error) {
	start := time.Now()
	defer func() {
		metrics.PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())
	}()

	res, err := p.submit(hashJob{kind: jobHash, password: password})
	if err != nil {
		return "", err
	}
	return res.hash, res.err
}

// Verify checks password against hash on a pool worker. A stopped pool
// returns ErrPoolStopped instead of a mismatch.
func (p *HashPool) Verify(password, hash string) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.PasswordHashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	}()

	res, err := p.submit(hashJob{kind: jobVerify, password: password, hash: hash})
	if err != nil {
		return false, err
	}
	return res.match, res.err
}

func (p *HashPool) submit(job hashJob) (hashResult, error) {
	job.result = make(chan hashResult, 1)

	select {
	case p.jobs <- job:
	case <-p.stopped:
		return hashResult{}, ErrPoolStopped
	}

	select {
	case res := <-job.result:
		return res, nil
	case <-p.stopped:
		return hashResult{}, ErrPoolStopped
	}
}

func (p *HashPool) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopped:
			return
		case job := <-p.jobs:
			switch job.kind {
			case jobHash:
				h, err := p.inner.Hash(job.password)
				if err != nil {
					p.log.Error().Err(err).Int("worker_id", id).Msg("password hashing failed")
				}
				job.result <- hashResult{hash: h, err: err}
			case jobVerify:
				match, err := p.inner.Verify(job.password, job.hash)
				job.result <- hashResult{match: match, err: err}
			}
		}
	}
}
