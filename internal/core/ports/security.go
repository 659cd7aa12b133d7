package ports

import (
	"time"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// PasswordHasher performs one-way salted hashing. Verify treats a malformed
// hash as a mismatch and reserves the error for a hasher that could not run.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// TokenIssuer issues and verifies signed bearer tokens. Verify returns
// domain.ErrInvalidToken for every failure.
type TokenIssuer interface {
	Issue(identity domain.Identity, ttl time.Duration) (string, error)
	Verify(token string) (domain.Identity, error)
}
