package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tell-platform/complaint-system/internal/api/response"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

const (
	msgEmailExists    = "User with this email already exists"
	msgUsernameExists = "Authority with this username already exists"
)

// IsEmailExist rejects registrations whose email is already taken by a user
// or an authority.
func IsEmailExist(checker ports.ExistenceChecker) echo.MiddlewareFunc {
	return uniqueField(func(c echo.Context, v string) (bool, error) {
		return checker.EmailExists(c.Request().Context(), v)
	}, func(b registration) string { return b.Email }, msgEmailExists)
}

// IsUsernameExist rejects authority registrations whose username is taken.
func IsUsernameExist(checker ports.ExistenceChecker) echo.MiddlewareFunc {
	return uniqueField(func(c echo.Context, v string) (bool, error) {
		return checker.UsernameExists(c.Request().Context(), v)
	}, func(b registration) string { return b.Username }, msgUsernameExists)
}

type registration struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

func uniqueField(
	exists func(c echo.Context, value string) (bool, error),
	field func(registration) string,
	msg string,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var body registration
			if err := peekJSON(c, &body); err != nil {
				return response.Fail(c, http.StatusBadRequest, nil, "invalid payload")
			}
			value := strings.TrimSpace(field(body))
			if value == "" {
				// Validation of the missing field is left to the handler.
				return next(c)
			}

			taken, err := exists(c, value)
			if err != nil {
				return err
			}
			if taken {
				return response.Fail(c, http.StatusUnprocessableEntity, nil, msg)
			}
			return next(c)
		}
	}
}
