package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/tell-platform/complaint-system/internal/api/middleware"
	"github.com/tell-platform/complaint-system/internal/core/domain"
)

// ctxIdentity returns the caller bound by the Authenticate middleware. Its
// absence means the route was wired without authentication.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.ID == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return id, nil
}

// bindValid binds the request into req and runs the registered validator.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("invalid payload")
	}
	return c.Validate(req)
}
