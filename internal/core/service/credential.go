package service

import (
	"crypto/subtle"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

const (
	minPasswordLen = 6

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// CreateCredential derives a salted argon2id digest for plaintext.
func CreateCredential(plaintext string) (domain.Credential, error) {
	if len(plaintext) < minPasswordLen {
		return domain.Credential{}, domain.Invalid("password must be at least %d characters", minPasswordLen)
	}
	salt := uuid.NewString()
	return domain.Credential{
		Digest: hex.EncodeToString(deriveKey(plaintext, salt)),
		Salt:   salt,
	}, nil
}

// VerifyCredential reports whether plaintext matches the stored credential.
func VerifyCredential(cred domain.Credential, plaintext string) bool {
	if cred.Digest == "" || cred.Salt == "" {
		return false
	}
	want, err := hex.DecodeString(cred.Digest)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(want, deriveKey(plaintext, cred.Salt)) == 1
}

func deriveKey(plaintext, salt string) []byte {
	return argon2.IDKey([]byte(plaintext), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
}
