package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type stubChecker struct {
	emails    map[string]bool
	usernames map[string]bool
	err       error
}

func (s stubChecker) EmailExists(_ context.Context, email string) (bool, error) {
	return s.emails[email], s.err
}

func (s stubChecker) UsernameExists(_ context.Context, username string) (bool, error) {
	return s.usernames[username], s.err
}

func postJSON(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestIsEmailExist(t *testing.T) {
	checker := stubChecker{emails: map[string]bool{"taken@example.com": true}}

	c, rec := postJSON(`{"email":"taken@example.com"}`)
	if err := IsEmailExist(checker)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertEnvelope(t, rec, http.StatusUnprocessableEntity, "User with this email already exists")

	c, rec = postJSON(`{"email":"free@example.com"}`)
	called := false
	if err := IsEmailExist(checker)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusCreated)
	})(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusCreated {
		t.Fatalf("free email rejected: %d", rec.Code)
	}
}

func TestIsUsernameExist(t *testing.T) {
	checker := stubChecker{usernames: map[string]bool{"haveli": true}}

	c, rec := postJSON(`{"username":"haveli","email":"new@example.com"}`)
	if err := IsUsernameExist(checker)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertEnvelope(t, rec, http.StatusUnprocessableEntity, "Authority with this username already exists")
}

func TestExistence_MissingFieldPassesThrough(t *testing.T) {
	c, _ := postJSON(`{}`)
	called := false
	if err := IsEmailExist(stubChecker{})(func(c echo.Context) error {
		called = true
		return nil
	})(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("expected next to run so the handler can validate")
	}
}

func TestExistence_LookupErrorPropagates(t *testing.T) {
	boom := errors.New("mongo unavailable")
	c, _ := postJSON(`{"email":"a@example.com"}`)
	err := IsEmailExist(stubChecker{err: boom})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)
	if !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
