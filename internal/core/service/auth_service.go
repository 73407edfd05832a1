package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

// AuthService implements registration, sign-in and token refresh for
// citizens and authorities.
type AuthService struct {
	users       ports.UserRepository
	authorities ports.AuthorityRepository
	tokens      ports.TokenService
	notifier    ports.Notifier
	cache       ports.Cache
	links       AuthLinks
	log         zerolog.Logger
	now         func() time.Time
}

// AuthLinks are the absolute URLs placed in account mails. Activate receives
// the pending-registration token as the signupToken query parameter.
// An empty AuthoritySignIn leaves the link out of the welcome mail.
type AuthLinks struct {
	Activate        string
	AuthoritySignIn string
}

func NewAuthService(
	users ports.UserRepository,
	authorities ports.AuthorityRepository,
	tokens ports.TokenService,
	notifier ports.Notifier,
	cache ports.Cache,
	links AuthLinks,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		authorities: authorities,
		tokens:      tokens,
		notifier:    notifier,
		cache:       cache,
		links:       links,
		log:         log,
		now:         time.Now,
	}
}

// Signup validates the form and returns a pending-registration token.
// Nothing is written until Activate is called with that token.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
	in.Email = normaliseEmail(in.Email)
	if strings.TrimSpace(in.FirstName) == "" || in.Email == "" {
		return nil, domain.Invalid("firstName and email are required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.Invalid("password must be at least %d characters", minPasswordLen)
	}

	exists, err := s.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailExists
	}

	token, err := s.tokens.EncodePendingRegistration(domain.PendingRegistration{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     in.Email,
		Contact:   in.Contact,
		Password:  in.Password,
		Address:   in.Address,
	})
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	res := &ports.SignupResult{SignupToken: token}
	res.NotifyErr = s.notifier.SendVerification(ctx, ports.VerificationMail{
		Email:     in.Email,
		FirstName: in.FirstName,
		Link:      s.links.Activate + "?signupToken=" + url.QueryEscape(token),
	})
	if res.NotifyErr != nil {
		s.log.Warn().Err(res.NotifyErr).Str("email", in.Email).Msg("verification mail not sent")
	}
	return res, nil
}

// Activate persists the account carried by a pending-registration token.
// Replaying the same token after success yields domain.ErrEmailExists.
func (s *AuthService) Activate(ctx context.Context, signupToken string) (*ports.AuthResult, error) {
	pending, err := s.tokens.DecodePendingRegistration(signupToken)
	if err != nil {
		return nil, err
	}
	// An authority may have claimed the address since signup.
	exists, err := s.EmailExists(ctx, pending.Email)
	if err != nil {
		return nil, fmt.Errorf("activate: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailExists
	}

	cred, err := CreateCredential(pending.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		FirstName:  pending.FirstName,
		LastName:   pending.LastName,
		Email:      pending.Email,
		Contact:    pending.Contact,
		Address:    pending.Address,
		Credential: cred,
		Role:       domain.RoleCitizen,
		Complaints: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("activate: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("account activated")
	return s.issuePair(user.Identity(), user.FullName())
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normaliseEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("signin: %w", err)
	}
	if !VerifyCredential(user.Credential, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issuePair(user.Identity(), user.FullName())
}

// Refresh exchanges a valid refresh token for a new pair bound to the same identity.
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (*ports.AuthResult, error) {
	id, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	return s.issuePair(id, "")
}

func (s *AuthService) CreateAuthority(ctx context.Context, in ports.CreateAuthorityInput) (*ports.CreateAuthorityResult, error) {
	a, err := s.createAuthority(ctx, in, domain.RoleAuthority)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, lookupCacheKey)

	res := &ports.CreateAuthorityResult{Authority: a}
	res.NotifyErr = s.notifier.SendAuthorityWelcome(ctx, ports.AuthorityWelcomeMail{
		Email:         a.Email,
		AuthorityName: a.AuthorityName,
		Username:      a.Username,
		Link:          s.links.AuthoritySignIn,
	})
	if res.NotifyErr != nil {
		s.log.Warn().Err(res.NotifyErr).Str("authority_id", a.ID).Msg("welcome mail not sent")
	}
	return res, nil
}

func (s *AuthService) AuthoritySignIn(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	a, err := s.authorities.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAuthorityNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authority signin: %w", err)
	}
	if !VerifyCredential(a.Credential, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issuePair(a.Identity(), a.AuthorityName)
}

// ResetPassword replaces the caller's own credential.
func (s *AuthService) ResetPassword(ctx context.Context, who domain.Identity, newPassword string) error {
	cred, err := CreateCredential(newPassword)
	if err != nil {
		return err
	}
	if who.Role == domain.RoleCitizen {
		err = s.users.SetCredential(ctx, who.ID, cred)
	} else {
		err = s.authorities.SetCredential(ctx, who.ID, cred)
	}
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	s.log.Info().Str("account_id", who.ID).Str("role", who.Role.String()).Msg("password reset")
	return nil
}

func (s *AuthService) SeedAdmin(ctx context.Context, in ports.CreateAuthorityInput) (*domain.Authority, error) {
	existing, err := s.authorities.FindByUsername(ctx, strings.TrimSpace(in.Username))
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("seed admin: %w", domain.ErrUsernameExists)
		}
		cred, err := CreateCredential(in.Password)
		if err != nil {
			return nil, err
		}
		if err := s.authorities.SetCredential(ctx, existing.ID, cred); err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
		return existing, nil
	case errors.Is(err, domain.ErrAuthorityNotFound):
		return s.createAuthority(ctx, in, domain.RoleAdmin)
	default:
		return nil, fmt.Errorf("seed admin: %w", err)
	}
}

// EmailExists checks both account collections so an address identifies one account.
func (s *AuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	email = normaliseEmail(email)
	if ok, err := s.users.EmailExists(ctx, email); err != nil || ok {
		return ok, err
	}
	return s.authorities.EmailExists(ctx, email)
}

func (s *AuthService) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.authorities.UsernameExists(ctx, strings.TrimSpace(username))
}

func (s *AuthService) createAuthority(ctx context.Context, in ports.CreateAuthorityInput, role domain.Role) (*domain.Authority, error) {
	in.Email = normaliseEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Email == "" || strings.TrimSpace(in.AuthorityName) == "" {
		return nil, domain.Invalid("authorityName, username and email are required")
	}
	if role == domain.RoleAuthority && strings.TrimSpace(in.District) == "" {
		return nil, domain.Invalid("district is required")
	}

	cred, err := CreateCredential(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	a, err := s.authorities.Create(ctx, &domain.Authority{
		AuthorityName: strings.TrimSpace(in.AuthorityName),
		Username:      in.Username,
		Email:         in.Email,
		Contact:       in.Contact,
		District:      strings.TrimSpace(in.District),
		Credential:    cred,
		Role:          role,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, fmt.Errorf("create authority: %w", err)
	}

	s.log.Info().Str("authority_id", a.ID).Str("role", role.String()).Msg("authority created")
	return a, nil
}

func (s *AuthService) issuePair(id domain.Identity, name string) (*ports.AuthResult, error) {
	sign, err := s.tokens.IssueSessionToken(id)
	if err != nil {
		return nil, err
	}
	ref, err := s.tokens.IssueRefreshToken(id)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{ID: id.ID, Role: id.Role, Name: name, SignToken: sign, RefToken: ref}, nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
