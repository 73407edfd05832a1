package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		expose     bool
		wantCode   int
		wantMsg    string
		wantResult any
	}{
		{"validation", domain.Invalid("title is required"), false, http.StatusBadRequest, "validation failed: title is required", nil},
		{"complaint not found", fmt.Errorf("confirm: %w", domain.ErrComplaintNotFound), false, http.StatusNotFound, "confirm: complaint not found", nil},
		{"bad credentials", domain.ErrInvalidCredentials, false, http.StatusUnauthorized, "invalid credentials", nil},
		{"bad token", domain.ErrInvalidToken, false, http.StatusUnauthorized, "Invalid or expired token", nil},
		{"forbidden", domain.ErrForbidden, false, http.StatusForbidden, "403! Forbidden", nil},
		{"email taken", fmt.Errorf("update user: %w", domain.ErrEmailExists), false, http.StatusUnprocessableEntity, "User with this email already exists", nil},
		{"username taken", domain.ErrUsernameExists, false, http.StatusUnprocessableEntity, "Authority with this username already exists", nil},
		{"invalid transition", fmt.Errorf("%w: open -> confirmed", domain.ErrInvalidTransition), false, http.StatusUnprocessableEntity, "invalid status transition: open -> confirmed", nil},
		{"unmatched route", echo.ErrNotFound, false, http.StatusNotFound, "404! page not found", "404"},
		{"wrong method", echo.ErrMethodNotAllowed, false, http.StatusNotFound, "404! page not found", "404"},
		{"body too large", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request Entity Too Large"), false, http.StatusRequestEntityTooLarge, "Request Entity Too Large", nil},
		{"unknown hidden", errors.New("mongo: socket closed"), false, http.StatusInternalServerError, "internal server error", nil},
		{"unknown exposed", errors.New("mongo: socket closed"), true, http.StatusInternalServerError, "internal server error", "mongo: socket closed"},
		{"signing", domain.ErrSigning, false, http.StatusInternalServerError, "internal server error", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop(), tt.expose)(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["success"] != false {
				t.Fatalf("expected success=false, got %v", body["success"])
			}
			if body["msg"] != tt.wantMsg {
				t.Fatalf("expected msg %q, got %q", tt.wantMsg, body["msg"])
			}
			if body["result"] != tt.wantResult {
				t.Fatalf("expected result %v, got %v", tt.wantResult, body["result"])
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler(zerolog.Nop(), false)(errors.New("late"), c)

	if rec.Code != http.StatusAccepted || rec.Body.Len() != 0 {
		t.Fatalf("committed response was modified: %d %q", rec.Code, rec.Body.String())
	}
}
