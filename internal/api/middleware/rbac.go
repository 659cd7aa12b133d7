package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// RequireRole lets the request through only when the authenticated caller
// holds one of roles. It must run after Authenticate.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return reject(domain.ErrAuthenticationRequired)
			}
			if _, ok := allowed[identity.Role]; !ok {
				return reject(domain.ErrInsufficientPermissions)
			}
			return next(c)
		}
	}
}
