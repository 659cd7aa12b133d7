package ports

import (
	"context"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// CreateAccountInput is the validated-at-boundary payload for a new account.
// Age holds the raw decoded JSON value so the service can classify it.
type CreateAccountInput struct {
	Name     string
	Email    string
	Age      any
	Password string
	Role     string
}

// UpdateAccountInput is a partial update. A nil field is left untouched.
// AgeSet distinguishes an explicit null age from an absent one.
type UpdateAccountInput struct {
	Name     *string
	Email    *string
	Age      any
	AgeSet   bool
	Password *string
	Role     *string
}

// IsEmpty reports whether the patch carries no fields at all.
func (in UpdateAccountInput) IsEmpty() bool {
	return in.Name == nil && in.Email == nil && !in.AgeSet && in.Password == nil && in.Role == nil
}

// AccountService orchestrates account CRUD. Every returned account is
// sanitized.
type AccountService interface {
	List(ctx context.Context, caller domain.Identity) ([]*domain.Account, error)
	Get(ctx context.Context, caller domain.Identity, id string) (*domain.Account, error)
	SearchByName(ctx context.Context, fragment string) ([]*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, input CreateAccountInput) (*domain.Account, error)
	Update(ctx context.Context, caller domain.Identity, id string, input UpdateAccountInput) (*domain.Account, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
}
