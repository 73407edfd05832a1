package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tell-platform/complaint-system/internal/api/response"
	"github.com/tell-platform/complaint-system/internal/core/domain"
)

const (
	msgNotFoundRoute = "404! page not found"
	msgInternal      = "internal server error"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Answers unmatched routes and methods with the 404 envelope.
//   - Logs unexpected errors and hides their text unless exposeInternal is set.
func NewHTTPErrorHandler(log zerolog.Logger, exposeInternal bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, result, msg := resolveError(err)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
			if exposeInternal {
				result = err.Error()
			}
		}
		_ = response.Fail(c, code, result, msg)
	}
}

func resolveError(err error) (int, any, string) {
	// Echo's own errors (bind failures, unmatched routes, body limit).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed {
			return http.StatusNotFound, "404", msgNotFoundRoute
		}
		if he.Code >= http.StatusInternalServerError {
			return he.Code, nil, msgInternal
		}
		return he.Code, nil, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, nil, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, nil, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, nil, "invalid credentials"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, nil, "Invalid or expired token"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, nil, "403! Forbidden"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusUnprocessableEntity, nil, conflictMessage(err)
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, nil, err.Error()
	}

	return http.StatusInternalServerError, nil, msgInternal
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmailExists):
		return "User with this email already exists"
	case errors.Is(err, domain.ErrUsernameExists):
		return "Authority with this username already exists"
	case errors.Is(err, domain.ErrCategoryExists):
		return "Category with this title already exists"
	}
	return err.Error()
}
