package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/userhub/accounts-api/internal/core/domain"
)

type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	order    []string
	calls    map[string]int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{
		accounts: make(map[string]*domain.Account),
		calls:    make(map[string]int),
	}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) called(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

func (r *stubAccountRepo) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["List"]++
	out := make([]*domain.Account, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneAccount(r.accounts[id]))
	}
	return out, nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["FindByID"]++
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["FindByEmail"]++
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAccountRepo) SearchByName(_ context.Context, fragment string) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["SearchByName"]++
	var out []*domain.Account
	for _, id := range r.order {
		a := r.accounts[id]
		if strings.Contains(strings.ToLower(a.Name), strings.ToLower(fragment)) {
			out = append(out, cloneAccount(a))
		}
	}
	return out, nil
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Create"]++
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return domain.ErrEmailInUse
		}
	}
	r.accounts[account.ID] = cloneAccount(account)
	r.order = append(r.order, account.ID)
	return nil
}

func (r *stubAccountRepo) Update(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Update"]++
	if _, ok := r.accounts[account.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for id, a := range r.accounts {
		if id != account.ID && a.Email == account.Email {
			return domain.ErrEmailInUse
		}
	}
	r.accounts[account.ID] = cloneAccount(account)
	return nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Delete"]++
	if _, ok := r.accounts[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.accounts, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *stubAccountRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.accounts)), nil
}

// seed stores an account directly, bypassing the service.
func (r *stubAccountRepo) seed(a *domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[a.ID] = cloneAccount(a)
	r.order = append(r.order, a.ID)
}

// stubHasher prefixes the password so tests can assert on it without bcrypt.
// verifyErr makes every Verify fail as a stopped worker pool would.
type stubHasher struct {
	mu        sync.Mutex
	calls     int
	verifyErr error
}

func (h *stubHasher) Hash(password string) (string, error) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	return "hashed:" + password, nil
}

func (h *stubHasher) Verify(password, hash string) (bool, error) {
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	return hash == "hashed:"+password, nil
}

type stubTokens struct {
	issued []domain.Identity
	ttl    time.Duration
}

func (s *stubTokens) Issue(identity domain.Identity, ttl time.Duration) (string, error) {
	s.issued = append(s.issued, identity)
	s.ttl = ttl
	return "token-for-" + identity.ID, nil
}

func (s *stubTokens) Verify(token string) (domain.Identity, error) {
	for _, id := range s.issued {
		if token == "token-for-"+id.ID {
			return id, nil
		}
	}
	return domain.Identity{}, domain.ErrInvalidToken
}

type stubCache struct {
	mu          sync.Mutex
	items       map[string]*domain.Account
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{items: make(map[string]*domain.Account)}
}

func (c *stubCache) Get(_ context.Context, id string) (*domain.Account, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.items[id]
	return cloneAccount(a), ok, nil
}

func (c *stubCache) Set(_ context.Context, account *domain.Account) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[account.ID] = account.Sanitized()
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

func storedAccount(id, email string, role domain.Role) *domain.Account {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Account{
		ID:           id,
		Name:         "Name " + id,
		Email:        email,
		Age:          30,
		PasswordHash: "hashed:password123",
		Role:         role,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
}
