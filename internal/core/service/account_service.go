package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/userhub/accounts-api/internal/core/domain"
	"github.com/userhub/accounts-api/internal/core/ports"
)

const (
	seedAdminName = "Admin"
	seedAdminAge  = 30

	// cacheReinvalidateDelay bounds how long a Get that read the store
	// before a write can keep its stale copy in the cache.
	cacheReinvalidateDelay = 500 * time.Millisecond
	cacheInvalidateTimeout = 2 * time.Second
)

// AccountService implements ports.AccountService on top of the Credential
// Store. The cache is optional.
type AccountService struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
	cache  ports.AccountCache
	log    zerolog.Logger
	now    func() time.Time

	reinvalidateDelay time.Duration
}

func NewAccountService(repo ports.AccountRepository, hasher ports.PasswordHasher, cache ports.AccountCache, log zerolog.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		hasher: hasher,
		cache:  cache,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },

		reinvalidateDelay: cacheReinvalidateDelay,
	}
}

// List returns every account to an ADMIN and only the caller's own account
// to a USER.
func (s *AccountService) List(ctx context.Context, caller domain.Identity) ([]*domain.Account, error) {
	switch caller.Role {
	case domain.RoleAdmin:
		accounts, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]*domain.Account, len(accounts))
		for i, a := range accounts {
			out[i] = a.Sanitized()
		}
		return out, nil
	case domain.RoleUser:
		own, err := s.Get(ctx, caller, caller.ID)
		if err != nil {
			return nil, err
		}
		return []*domain.Account{own}, nil
	default:
		return nil, domain.ErrInsufficientPermissions
	}
}

// Get returns one account after the ownership check.
func (s *AccountService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.Account, error) {
	if !domain.CanAccess(caller, id) {
		return nil, domain.ErrInsufficientPermissions
	}

	if cached, ok := s.cacheGet(ctx, id); ok {
		return cached, nil
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, account)
	return account.Sanitized(), nil
}

func (s *AccountService) SearchByName(ctx context.Context, fragment string) ([]*domain.Account, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, domain.ErrNameQueryRequired
	}

	accounts, err := s.repo.SearchByName(ctx, fragment)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Account, len(accounts))
	for i, a := range accounts {
		out[i] = a.Sanitized()
	}
	return out, nil
}

func (s *AccountService) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.ErrEmailQueryRequired
	}
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return account.Sanitized(), nil
}

// Create validates input in a fixed order (email, password, age, role) before
// touching the store, then checks uniqueness. The store's unique constraint
// still decides between concurrent creates.
func (s *AccountService) Create(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
	email := strings.TrimSpace(in.Email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	age, err := domain.ValidateAge(in.Age)
	if err != nil {
		return nil, err
	}
	role, err := domain.ValidateRole(in.Role)
	if err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create account: hash password: %w", err)
	}

	now := s.now()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        email,
		Age:          age,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", account.ID).Str("role", string(role)).Msg("account created")
	return account.Sanitized(), nil
}

// Update applies a partial update. Only supplied fields are validated and
// written; a patch that changes nothing returns the record untouched,
// including updated_at. Only an ADMIN may send role, even for its own
// account.
func (s *AccountService) Update(ctx context.Context, caller domain.Identity, id string, in ports.UpdateAccountInput) (*domain.Account, error) {
	if !domain.CanAccess(caller, id) {
		return nil, domain.ErrInsufficientPermissions
	}
	if in.Role != nil && !caller.IsAdmin() {
		return nil, domain.ErrInsufficientPermissions
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.IsEmpty() {
		return account.Sanitized(), nil
	}

	changed := false

	if in.Name != nil {
		if err := domain.ValidateName(*in.Name); err != nil {
			return nil, err
		}
		if *in.Name != account.Name {
			account.Name = *in.Name
			changed = true
		}
	}

	emailChanged := false
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != account.Email {
			if err := domain.ValidateEmail(email); err != nil {
				return nil, err
			}
			account.Email = email
			emailChanged = true
		}
	}

	if in.Password != nil {
		if err := domain.ValidatePassword(*in.Password); err != nil {
			return nil, err
		}
	}

	if in.AgeSet {
		age, err := domain.ValidateAge(in.Age)
		if err != nil {
			return nil, err
		}
		if age != account.Age {
			account.Age = age
			changed = true
		}
	}

	if in.Role != nil {
		if *in.Role == "" {
			return nil, domain.ErrRoleInvalid
		}
		role, err := domain.ValidateRole(*in.Role)
		if err != nil {
			return nil, err
		}
		if role != account.Role {
			account.Role = role
			changed = true
		}
	}

	if emailChanged {
		if err := s.ensureEmailFree(ctx, account.Email, account.ID); err != nil {
			return nil, err
		}
		changed = true
	}

	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("update account: hash password: %w", err)
		}
		account.PasswordHash = hash
		changed = true
	}

	if !changed {
		return account.Sanitized(), nil
	}

	account.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	s.cacheInvalidate(ctx, id)

	s.log.Info().Str("user_id", id).Msg("account updated")
	return account.Sanitized(), nil
}

// Delete hard-deletes the account.
func (s *AccountService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	if !domain.CanAccess(caller, id) {
		return domain.ErrInsufficientPermissions
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cacheInvalidate(ctx, id)

	s.log.Info().Str("user_id", id).Msg("account deleted")
	return nil
}

// EnsureAdmin seeds one ADMIN account when the store is empty. It is a
// no-op otherwise.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password string) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("seed admin: hash password: %w", err)
	}

	now := s.now()
	admin := &domain.Account{
		ID:           uuid.NewString(),
		Name:         seedAdminName,
		Email:        email,
		Age:          seedAdminAge,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrEmailInUse) {
			return nil
		}
		return fmt.Errorf("seed admin: %w", err)
	}

	s.log.Info().Str("email", email).Msg("seeded admin account")
	return nil
}

// ensureEmailFree fails with ErrEmailInUse when another account (not
// selfID) already holds email.
func (s *AccountService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return domain.ErrEmailInUse
	default:
		return nil
	}
}

func (s *AccountService) cacheGet(ctx context.Context, id string) (*domain.Account, bool) {
	if s.cache == nil {
		return nil, false
	}
	acc, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("account cache read failed")
		return nil, false
	}
	return acc, ok
}

func (s *AccountService) cacheSet(ctx context.Context, account *domain.Account) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, account); err != nil {
		s.log.Warn().Err(err).Str("user_id", account.ID).Msg("account cache write failed")
	}
}

// cacheInvalidate drops id right after a write and once more after
// reinvalidateDelay, so a concurrent Get that loaded the old row and cached
// it after the first drop cannot serve it for the whole TTL.
func (s *AccountService) cacheInvalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("account cache invalidation failed")
	}
	if s.reinvalidateDelay <= 0 {
		return
	}

	time.AfterFunc(s.reinvalidateDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cacheInvalidateTimeout)
		defer cancel()
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("delayed account cache invalidation failed")
		}
	})
}
