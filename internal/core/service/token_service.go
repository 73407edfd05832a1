package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

// TokenConfig holds one secret and lifetime per token kind.
type TokenConfig struct {
	Issuer        string
	SessionSecret string
	RefreshSecret string
	SignupSecret  string
	SessionTTL    time.Duration
	RefreshTTL    time.Duration
	SignupTTL     time.Duration
}

type tokenKind string

const (
	kindSession tokenKind = "session"
	kindRefresh tokenKind = "refresh"
	kindSignup  tokenKind = "signup"
)

type identityClaims struct {
	Role domain.Role `json:"role"`
	Kind tokenKind   `json:"typ"`
	jwt.RegisteredClaims
}

// pendingClaims embeds the signup form. Email, Contact and Password hold ciphertext.
type pendingClaims struct {
	Kind      tokenKind      `json:"typ"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Address   domain.Address `json:"address"`
	Email     string         `json:"email"`
	Contact   string         `json:"contact,omitempty"`
	Password  string         `json:"password"`
	jwt.RegisteredClaims
}

// TokenService implements ports.TokenService with HS256 JWTs.
type TokenService struct {
	cfg    TokenConfig
	cipher ports.FieldCipher
	now    func() time.Time
}

func NewTokenService(cfg TokenConfig, cipher ports.FieldCipher) *TokenService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.SignupTTL <= 0 {
		cfg.SignupTTL = 30 * time.Minute
	}
	return &TokenService{cfg: cfg, cipher: cipher, now: time.Now}
}

func (s *TokenService) IssueSessionToken(id domain.Identity) (string, error) {
	return s.issue(id, kindSession, s.cfg.SessionSecret, s.cfg.SessionTTL)
}

func (s *TokenService) IssueRefreshToken(id domain.Identity) (string, error) {
	return s.issue(id, kindRefresh, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
}

func (s *TokenService) VerifySessionToken(token string) (domain.Identity, error) {
	return s.verify(token, kindSession, s.cfg.SessionSecret)
}

func (s *TokenService) VerifyRefreshToken(token string) (domain.Identity, error) {
	return s.verify(token, kindRefresh, s.cfg.RefreshSecret)
}

// EncodePendingRegistration signs the signup form with its sensitive fields encrypted.
func (s *TokenService) EncodePendingRegistration(p domain.PendingRegistration) (string, error) {
	email, err := s.cipher.Encrypt(p.Email)
	if err != nil {
		return "", fmt.Errorf("%w: encrypt email: %v", domain.ErrSigning, err)
	}
	password, err := s.cipher.Encrypt(p.Password)
	if err != nil {
		return "", fmt.Errorf("%w: encrypt password: %v", domain.ErrSigning, err)
	}
	var contact string
	if p.Contact != "" {
		if contact, err = s.cipher.Encrypt(p.Contact); err != nil {
			return "", fmt.Errorf("%w: encrypt contact: %v", domain.ErrSigning, err)
		}
	}

	now := s.now()
	claims := pendingClaims{
		Kind:             kindSignup,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Address:          p.Address,
		Email:            email,
		Contact:          contact,
		Password:         password,
		RegisteredClaims: s.registered("", now, s.cfg.SignupTTL),
	}
	return s.sign(claims, s.cfg.SignupSecret)
}

// DecodePendingRegistration verifies a signup token and decrypts its fields.
func (s *TokenService) DecodePendingRegistration(token string) (domain.PendingRegistration, error) {
	var claims pendingClaims
	if err := s.parse(token, &claims, s.cfg.SignupSecret); err != nil || claims.Kind != kindSignup {
		return domain.PendingRegistration{}, domain.ErrInvalidToken
	}

	email, err := s.cipher.Decrypt(claims.Email)
	if err != nil {
		return domain.PendingRegistration{}, domain.ErrInvalidToken
	}
	password, err := s.cipher.Decrypt(claims.Password)
	if err != nil {
		return domain.PendingRegistration{}, domain.ErrInvalidToken
	}
	var contact string
	if claims.Contact != "" {
		if contact, err = s.cipher.Decrypt(claims.Contact); err != nil {
			return domain.PendingRegistration{}, domain.ErrInvalidToken
		}
	}

	return domain.PendingRegistration{
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Email:     email,
		Contact:   contact,
		Password:  password,
		Address:   claims.Address,
	}, nil
}

func (s *TokenService) issue(id domain.Identity, kind tokenKind, secret string, ttl time.Duration) (string, error) {
	claims := identityClaims{
		Role:             id.Role,
		Kind:             kind,
		RegisteredClaims: s.registered(id.ID, s.now(), ttl),
	}
	return s.sign(claims, secret)
}

func (s *TokenService) verify(token string, kind tokenKind, secret string) (domain.Identity, error) {
	var claims identityClaims
	if err := s.parse(token, &claims, secret); err != nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if claims.Kind != kind || claims.Subject == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return domain.Identity{ID: claims.Subject, Role: claims.Role}, nil
}

func (s *TokenService) registered(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (s *TokenService) sign(claims jwt.Claims, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("%w: signing key not configured", domain.ErrSigning)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSigning, err)
	}
	return signed, nil
}

func (s *TokenService) parse(token string, claims jwt.Claims, secret string) error {
	if secret == "" {
		return domain.ErrInvalidToken
	}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid {
		return domain.ErrInvalidToken
	}
	return nil
}
