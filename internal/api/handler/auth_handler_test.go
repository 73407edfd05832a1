package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

type stubAuthService struct {
	signupFn   func(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error)
	activateFn func(ctx context.Context, token string) (*ports.AuthResult, error)
	signinFn   func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	refreshFn  func(ctx context.Context, token string) (*ports.AuthResult, error)
	createFn   func(ctx context.Context, in ports.CreateAuthorityInput) (*ports.CreateAuthorityResult, error)
	resetFn    func(ctx context.Context, who domain.Identity, password string) error
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Activate(ctx context.Context, token string) (*ports.AuthResult, error) {
	return s.activateFn(ctx, token)
}

func (s *stubAuthService) SignIn(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.signinFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (*ports.AuthResult, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubAuthService) CreateAuthority(ctx context.Context, in ports.CreateAuthorityInput) (*ports.CreateAuthorityResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubAuthService) AuthoritySignIn(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	return s.signinFn(ctx, username, password)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, who domain.Identity, password string) error {
	return s.resetFn(ctx, who, password)
}

func (s *stubAuthService) SeedAdmin(context.Context, ports.CreateAuthorityInput) (*domain.Authority, error) {
	return nil, errors.New("not used")
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return body
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
			if in.Email != "asha@example.com" || in.Address.District != "Haveli" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.SignupResult{SignupToken: "pending"}, nil
		},
	}

	c, rec := jsonContext(e, http.MethodPost, "/auth/signup",
		`{"firstName":"Asha","email":"asha@example.com","password":"secret1","address":{"city":"Pune","district":"Haveli"}}`)
	if err := NewAuthHandler(stub).Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success, got %+v", body)
	}
	if result, _ := body["result"].(map[string]any); result["signupToken"] != "pending" {
		t.Fatalf("expected signup token in result, got %+v", body["result"])
	}
	if _, ok := body["info"]; ok {
		t.Fatalf("unexpected info: %+v", body)
	}
}

func TestAuthHandler_Signup_MailFailureIsInfo(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(context.Context, ports.SignupInput) (*ports.SignupResult, error) {
			return &ports.SignupResult{SignupToken: "pending", NotifyErr: errors.New("relay down")}, nil
		},
	}

	c, rec := jsonContext(e, http.MethodPost, "/auth/signup",
		`{"firstName":"Asha","email":"asha@example.com","password":"secret1"}`)
	if err := NewAuthHandler(stub).Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := decodeEnvelope(t, rec)
	if body["success"] != true || body["info"] != "email not sent" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if result, _ := body["result"].(map[string]any); result["signupToken"] != "pending" {
		t.Fatalf("expected signup token, got %+v", body["result"])
	}
}

func TestAuthHandler_Signup_InvalidPayload(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(context.Context, ports.SignupInput) (*ports.SignupResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	for _, body := range []string{
		"not-json",
		`{"firstName":"Asha","email":"not-an-email","password":"secret1"}`,
		`{"firstName":"  ","email":"asha@example.com","password":"secret1"}`,
		`{"firstName":"Asha","email":"asha@example.com","password":"123"}`,
	} {
		c, _ := jsonContext(e, http.MethodPost, "/auth/signup", body)
		if err := h.Signup(c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("body %s: expected validation error, got %v", body, err)
		}
	}
}

func TestAuthHandler_Activate(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		activateFn: func(_ context.Context, token string) (*ports.AuthResult, error) {
			if token != "tampered" {
				return &ports.AuthResult{ID: "u1", SignToken: "s", RefToken: "r"}, nil
			}
			return nil, domain.ErrInvalidToken
		},
	}
	h := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/auth/activate", `{"signupToken":"good"}`)
	if err := h.Activate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	result := decodeEnvelope(t, rec)["result"].(map[string]any)
	if result["signToken"] != "s" || result["refToken"] != "r" {
		t.Fatalf("unexpected token pair: %+v", result)
	}

	c, _ = jsonContext(e, http.MethodPost, "/auth/activate", `{"signupToken":"tampered"}`)
	if err := h.Activate(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestAuthHandler_Activate_FromQuery(t *testing.T) {
	e := newEcho()
	var got string
	stub := &stubAuthService{
		activateFn: func(_ context.Context, token string) (*ports.AuthResult, error) {
			got = token
			return &ports.AuthResult{ID: "u1", SignToken: "s", RefToken: "r"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/activate?signupToken=a.b%2Bc", nil)
	rec := httptest.NewRecorder()
	if err := NewAuthHandler(stub).Activate(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got != "a.b+c" {
		t.Fatalf("expected decoded query token, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/activate", nil)
	if err := NewAuthHandler(stub).Activate(e.NewContext(req, httptest.NewRecorder())); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for missing token, got %v", err)
	}
}

func TestAuthHandler_SignIn_BadCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signinFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}

	c, _ := jsonContext(e, http.MethodPost, "/auth/signin", `{"email":"a@example.com","password":"wrong"}`)
	if err := NewAuthHandler(stub).SignIn(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAuthHandler_Refresh_FailureIs401(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		refreshFn: func(context.Context, string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidToken
		},
	}

	c, rec := jsonContext(e, http.MethodPost, "/auth/refresh", `{"refToken":"expired"}`)
	if err := NewAuthHandler(stub).Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := decodeEnvelope(t, rec); body["msg"] != "Unauthorized" || body["success"] != false {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestAuthHandler_CreateAuthority(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		createFn: func(_ context.Context, in ports.CreateAuthorityInput) (*ports.CreateAuthorityResult, error) {
			if in.Username != "haveli" || in.District != "Haveli" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.CreateAuthorityResult{
				Authority: &domain.Authority{ID: "p1", Username: in.Username, Role: domain.RoleAuthority},
				NotifyErr: domain.ErrNotificationsDisabled,
			}, nil
		},
	}

	c, rec := jsonContext(e, http.MethodPost, "/auth/pro/new",
		`{"userId":"a1","authorityName":"Haveli Ward","username":"haveli","email":"ward@example.com","district":"Haveli","password":"secret1"}`)
	if err := NewAuthHandler(stub).CreateAuthority(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["info"] != "email not sent" {
		t.Fatalf("expected info, got %+v", body)
	}
	if _, leaked := body["result"].(map[string]any)["password"]; leaked {
		t.Fatalf("password leaked in response")
	}
}

func TestAuthHandler_ResetPassword_UsesCallerIdentity(t *testing.T) {
	e := newEcho()
	var got domain.Identity
	stub := &stubAuthService{
		resetFn: func(_ context.Context, who domain.Identity, password string) error {
			got = who
			return nil
		},
	}

	c, rec := jsonContext(e, http.MethodPut, "/auth/password/reset", `{"userId":"p1","password":"newsecret"}`)
	c.Set("identity", domain.Identity{ID: "p1", Role: domain.RoleAuthority})
	if err := NewAuthHandler(stub).ResetPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.ID != "p1" || got.Role != domain.RoleAuthority {
		t.Fatalf("unexpected identity: %+v", got)
	}
}
