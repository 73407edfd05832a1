package ports

import (
	"context"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

// SignupInput carries the registration form.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Contact   string
	Password  string
	Address   domain.Address
}

// SignupResult is returned before anything is persisted.
// NotifyErr is set when the verification mail could not be sent.
type SignupResult struct {
	SignupToken string
	NotifyErr   error
}

// AuthResult is a freshly issued token pair for an identity.
type AuthResult struct {
	ID        string
	Role      domain.Role
	Name      string
	SignToken string
	RefToken  string
}

type CreateAuthorityInput struct {
	AuthorityName string
	Username      string
	Email         string
	Contact       string
	District      string
	Password      string
}

// CreateAuthorityResult carries the new account and any welcome-mail failure.
type CreateAuthorityResult struct {
	Authority *domain.Authority
	NotifyErr error
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*SignupResult, error)
	Activate(ctx context.Context, signupToken string) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	CreateAuthority(ctx context.Context, in CreateAuthorityInput) (*CreateAuthorityResult, error)
	AuthoritySignIn(ctx context.Context, username, password string) (*AuthResult, error)
	ResetPassword(ctx context.Context, who domain.Identity, newPassword string) error
	// SeedAdmin creates the admin account, or resets its password if it exists.
	SeedAdmin(ctx context.Context, in CreateAuthorityInput) (*domain.Authority, error)
}

// ExistenceChecker answers the registration uniqueness checks.
type ExistenceChecker interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}
