package ports

import "github.com/tell-platform/complaint-system/internal/core/domain"

// TokenService issues and verifies every signed token the API hands out.
// Verification failures of any cause are reported as domain.ErrInvalidToken.
type TokenService interface {
	IssueSessionToken(id domain.Identity) (string, error)
	IssueRefreshToken(id domain.Identity) (string, error)
	VerifySessionToken(token string) (domain.Identity, error)
	VerifyRefreshToken(token string) (domain.Identity, error)
	EncodePendingRegistration(p domain.PendingRegistration) (string, error)
	DecodePendingRegistration(token string) (domain.PendingRegistration, error)
}

// SessionVerifier is the slice of TokenService the auth middleware needs.
type SessionVerifier interface {
	VerifySessionToken(token string) (domain.Identity, error)
}

// FieldCipher reversibly encrypts single string fields.
type FieldCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
