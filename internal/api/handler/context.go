package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/userhub/accounts-api/internal/api/middleware"
	"github.com/userhub/accounts-api/internal/core/domain"
)

// callerFrom returns the identity injected by the Authenticate middleware.
// A missing identity means the route was mounted without it.
func callerFrom(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrAuthenticationRequired
	}
	return id, nil
}
