package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/userhub/accounts-api/internal/core/domain"
)

const identityKey = "identity"

// SetIdentity attaches the authenticated caller to the request context.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the caller attached by Authenticate. ok is false when
// the request never passed through it.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}
