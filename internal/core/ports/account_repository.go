package ports

import (
	"context"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// AccountRepository is the Credential Store. Implementations must enforce
// email uniqueness atomically and report violations as domain.ErrEmailInUse.
// Lookups that match nothing return domain.ErrUserNotFound.
type AccountRepository interface {
	List(ctx context.Context) ([]*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	// FindByEmail matches the email exactly (case-sensitive).
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// SearchByName returns accounts whose name contains fragment, ignoring case.
	SearchByName(ctx context.Context, fragment string) ([]*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	// Update overwrites the mutable fields of an existing account.
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// AccountCache stores sanitized accounts by id. A miss is reported with
// ok=false and a nil error.
type AccountCache interface {
	Get(ctx context.Context, id string) (account *domain.Account, ok bool, err error)
	Set(ctx context.Context, account *domain.Account) error
	Invalidate(ctx context.Context, id string) error
}
