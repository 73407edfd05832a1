package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

type authFixture struct {
	svc         *AuthService
	users       *stubUserRepo
	authorities *stubAuthorityRepo
	notifier    *stubNotifier
	cache       *stubCache
	tokens      *TokenService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:       newStubUserRepo(),
		authorities: newStubAuthorityRepo(),
		notifier:    &stubNotifier{},
		cache:       newStubCache(),
		tokens:      newTestTokens(),
	}
	f.svc = NewAuthService(f.users, f.authorities, f.tokens, f.notifier, f.cache, AuthLinks{
		Activate:        "https://tell.example/activate",
		AuthoritySignIn: "https://tell.example/pro/signin",
	}, zerolog.Nop())
	return f
}

func validSignup() ports.SignupInput {
	return ports.SignupInput{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     " Asha@Example.com ",
		Password:  "hunter22",
		Address:   domain.Address{City: "Pune", District: "Haveli"},
	}
}

// ---------------------------------------------------------------------------
// Signup / Activate
// ---------------------------------------------------------------------------

func TestAuthService_SignupWritesNothing(t *testing.T) {
	f := newAuthFixture()

	res, err := f.svc.Signup(context.Background(), validSignup())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.SignupToken == "" {
		t.Fatalf("expected signup token")
	}
	if len(f.users.byID) != 0 {
		t.Fatalf("signup must not persist a user, got %d", len(f.users.byID))
	}
	if len(f.notifier.verification) != 1 {
		t.Fatalf("expected one verification mail, got %d", len(f.notifier.verification))
	}
	if !strings.HasPrefix(f.notifier.verification[0].Link, "https://tell.example/activate?signupToken=") {
		t.Errorf("unexpected activation link: %s", f.notifier.verification[0].Link)
	}
}

func TestAuthService_SignupNotificationFailureIsNonFatal(t *testing.T) {
	f := newAuthFixture()
	f.notifier.err = errors.New("smtp down")

	res, err := f.svc.Signup(context.Background(), validSignup())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.NotifyErr == nil || res.SignupToken == "" {
		t.Fatalf("expected token plus notification error, got %+v", res)
	}
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.users.seed(domain.User{Email: "asha@example.com"})

	_, err := f.svc.Signup(context.Background(), validSignup())
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_ActivateCreatesUserOnce(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	res, err := f.svc.Signup(ctx, validSignup())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	auth, err := f.svc.Activate(ctx, res.SignupToken)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if auth.SignToken == "" || auth.RefToken == "" || auth.Role != domain.RoleCitizen {
		t.Fatalf("unexpected auth result: %+v", auth)
	}

	stored := f.users.byID[auth.ID]
	if stored == nil || stored.Email != "asha@example.com" {
		t.Fatalf("expected persisted user with normalised email, got %+v", stored)
	}
	if !VerifyCredential(stored.Credential, "hunter22") {
		t.Fatalf("stored credential must verify the signup password")
	}

	if _, err := f.svc.Activate(ctx, res.SignupToken); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected replayed activation to conflict, got %v", err)
	}
	if len(f.users.byID) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(f.users.byID))
	}
}

func TestAuthService_ActivateRejectsEmailClaimedByAuthority(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	res, err := f.svc.Signup(ctx, validSignup())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	f.authorities.seed(domain.Authority{Username: "ward", Email: "asha@example.com"})

	if _, err := f.svc.Activate(ctx, res.SignupToken); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if len(f.users.byID) != 0 {
		t.Fatalf("expected no user to be created, got %d", len(f.users.byID))
	}
}

func TestAuthService_ActivateTamperedOrForeignToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	res, _ := f.svc.Signup(ctx, validSignup())
	session, _ := f.tokens.IssueSessionToken(domain.Identity{ID: "x"})

	for name, token := range map[string]string{
		"tampered": res.SignupToken[:len(res.SignupToken)-4] + "AAAA",
		"session":  session,
		"garbage":  "abc.def.ghi",
	} {
		if _, err := f.svc.Activate(ctx, token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
	if len(f.users.byID) != 0 {
		t.Fatalf("invalid activation must not persist, got %d users", len(f.users.byID))
	}
}

// ---------------------------------------------------------------------------
// Sign-in / Refresh
// ---------------------------------------------------------------------------

func TestAuthService_SignIn(t *testing.T) {
	f := newAuthFixture()
	cred, _ := CreateCredential("hunter22")
	id := f.users.seed(domain.User{FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Credential: cred})

	res, err := f.svc.SignIn(context.Background(), "ASHA@example.com", "hunter22")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.ID != id || res.Name != "Asha Rao" {
		t.Fatalf("unexpected result: %+v", res)
	}

	got, err := f.tokens.VerifySessionToken(res.SignToken)
	if err != nil || got.ID != id {
		t.Fatalf("session token must carry the user id, got %+v (%v)", got, err)
	}
}

func TestAuthService_SignInFailuresAreUniform(t *testing.T) {
	f := newAuthFixture()
	cred, _ := CreateCredential("hunter22")
	f.users.seed(domain.User{Email: "asha@example.com", Credential: cred})

	for _, tc := range []struct{ email, password string }{
		{"asha@example.com", "wrong-pass"},
		{"nobody@example.com", "hunter22"},
		{"", ""},
	} {
		if _, err := f.svc.SignIn(context.Background(), tc.email, tc.password); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", tc.email, err)
		}
	}
}

func TestAuthService_RefreshIssuesNewPairForSameIdentity(t *testing.T) {
	f := newAuthFixture()
	id := domain.Identity{ID: "auth-7", Role: domain.RoleAuthority}
	ref, _ := f.tokens.IssueRefreshToken(id)

	res, err := f.svc.Refresh(context.Background(), ref)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.RefToken == ref {
		t.Fatalf("expected a fresh refresh token")
	}
	got, err := f.tokens.VerifySessionToken(res.SignToken)
	if err != nil || got != id {
		t.Fatalf("expected identity %+v, got %+v (%v)", id, got, err)
	}

	if _, err := f.svc.Refresh(context.Background(), res.SignToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("session token must not refresh, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Authorities
// ---------------------------------------------------------------------------

func validAuthority() ports.CreateAuthorityInput {
	return ports.CreateAuthorityInput{
		AuthorityName: "Haveli Ward Office",
		Username:      "haveli",
		Email:         "haveli@gov.example",
		District:      "Haveli",
		Password:      "ward-pass",
	}
}

func TestAuthService_CreateAuthority(t *testing.T) {
	f := newAuthFixture()
	f.cache.data[lookupCacheKey] = []byte(`{}`)

	res, err := f.svc.CreateAuthority(context.Background(), validAuthority())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.Authority.Role != domain.RoleAuthority {
		t.Fatalf("expected role 49, got %d", res.Authority.Role)
	}
	if _, cached := f.cache.data[lookupCacheKey]; cached {
		t.Fatalf("expected lookup cache to be invalidated")
	}
	if len(f.notifier.welcome) != 1 || f.notifier.welcome[0].Username != "haveli" {
		t.Fatalf("expected one welcome mail, got %+v", f.notifier.welcome)
	}
	if link := f.notifier.welcome[0].Link; link != "https://tell.example/pro/signin" {
		t.Errorf("unexpected sign-in link: %s", link)
	}
}

func TestAuthService_CreateAuthorityMailFailureStillCreates(t *testing.T) {
	f := newAuthFixture()
	f.notifier.err = errors.New("timeout")

	res, err := f.svc.CreateAuthority(context.Background(), validAuthority())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.NotifyErr == nil || len(f.authorities.byID) != 1 {
		t.Fatalf("expected created authority with notify error, got %+v", res)
	}
}

func TestAuthService_AuthoritySignInAndReset(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	res, _ := f.svc.CreateAuthority(ctx, validAuthority())

	auth, err := f.svc.AuthoritySignIn(ctx, "haveli", "ward-pass")
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if auth.Role != domain.RoleAuthority || auth.Name != "Haveli Ward Office" {
		t.Fatalf("unexpected result: %+v", auth)
	}

	if err := f.svc.ResetPassword(ctx, res.Authority.Identity(), "new-ward-pass"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := f.svc.AuthoritySignIn(ctx, "haveli", "ward-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := f.svc.AuthoritySignIn(ctx, "haveli", "new-ward-pass"); err != nil {
		t.Fatalf("new password must work, got %v", err)
	}
}

func TestAuthService_SeedAdminIsIdempotent(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	in := ports.CreateAuthorityInput{AuthorityName: "Admin", Username: "admin", Email: "admin@tell.example", Password: "first-pass"}

	first, err := f.svc.SeedAdmin(ctx, in)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if first.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %d", first.Role)
	}

	in.Password = "second-pass"
	second, err := f.svc.SeedAdmin(ctx, in)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if second.ID != first.ID || len(f.authorities.byID) != 1 {
		t.Fatalf("reseeding must reuse the account")
	}
	if _, err := f.svc.AuthoritySignIn(ctx, "admin", "second-pass"); err != nil {
		t.Fatalf("expected reseeded password to work, got %v", err)
	}
}

func TestAuthService_EmailExistsSpansCollections(t *testing.T) {
	f := newAuthFixture()
	f.authorities.seed(domain.Authority{Username: "ward", Email: "ward@gov.example"})

	ok, err := f.svc.EmailExists(context.Background(), "WARD@gov.example")
	if err != nil || !ok {
		t.Fatalf("expected authority email to count, got %v (%v)", ok, err)
	}
	ok, _ = f.svc.UsernameExists(context.Background(), "ward")
	if !ok {
		t.Fatalf("expected username to exist")
	}
}
