package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/userhub/accounts-api/internal/api/metrics"
	"github.com/userhub/accounts-api/internal/core/domain"
	"github.com/userhub/accounts-api/internal/core/ports"
)

const bearerScheme = "Bearer"

// Authenticate validates the bearer token and attaches the resolved identity
// to the context. The header must be exactly "Bearer <token>".
func Authenticate(tokens ports.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return reject(domain.ErrAuthHeaderMissing)
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != bearerScheme || parts[1] == "" {
				return reject(domain.ErrAuthHeaderMalformed)
			}

			identity, err := tokens.Verify(parts[1])
			if err != nil {
				return reject(domain.ErrInvalidToken)
			}

			SetIdentity(c, identity)
			return next(c)
		}
	}
}

func reject(err *domain.Error) error {
	metrics.AuthRejectionsTotal.WithLabelValues(err.Code).Inc()
	return err
}
