package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tell-platform/complaint-system/internal/api/response"
)

const msgNotOwner = "Unauthorized Action"

// IsOwner requires the authenticated identity to match the userId carried in
// the path or, when the route has no such parameter, in the JSON body.
func IsOwner() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return response.Fail(c, http.StatusUnauthorized, nil, msgInvalidToken)
			}

			claimed := c.Param("userId")
			if claimed == "" {
				var body struct {
					UserID string `json:"userId"`
				}
				if err := peekJSON(c, &body); err != nil {
					return response.Fail(c, http.StatusBadRequest, nil, "invalid payload")
				}
				claimed = body.UserID
			}

			if claimed == "" || claimed != id.ID {
				return response.Fail(c, http.StatusForbidden, nil, msgNotOwner)
			}
			return next(c)
		}
	}
}

// peekJSON decodes the JSON request body into dst and restores the body so the
// handler can bind it again. Non-JSON and empty bodies leave dst untouched.
func peekJSON(c echo.Context, dst any) error {
	req := c.Request()
	if req.Body == nil || !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return nil
	}
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
