package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/tell-platform/complaint-system/internal/api/response"
	"github.com/tell-platform/complaint-system/internal/core/domain"
)

const msgForbidden = "403! Forbidden"

// RequireRole enforces role-based access control.
func RequireRole(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok || !slices.Contains(allowed, id.Role) {
				return response.Fail(c, http.StatusForbidden, nil, msgForbidden)
			}
			return next(c)
		}
	}
}

func IsAdmin() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}

func IsAuthority() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAuthority)
}
