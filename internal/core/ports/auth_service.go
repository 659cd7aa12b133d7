package ports

import (
	"context"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// LoginResult carries the issued token and the sanitized account.
type LoginResult struct {
	Token   string
	Account *domain.Account
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
