package service

import (
	"errors"
	"testing"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

func TestCreateCredential_VerifiesOnlyOriginal(t *testing.T) {
	cred, err := CreateCredential("s3cret-pass")
	if err != nil {
		t.Fatalf("create credential: %v", err)
	}
	if cred.Digest == "" || cred.Salt == "" {
		t.Fatalf("expected digest and salt, got %+v", cred)
	}
	if cred.Digest == "s3cret-pass" {
		t.Fatalf("digest must not be the plaintext")
	}
	if !VerifyCredential(cred, "s3cret-pass") {
		t.Fatalf("expected original password to verify")
	}
	if VerifyCredential(cred, "s3cret-pasS") {
		t.Fatalf("expected different password to fail")
	}
}

func TestCreateCredential_SaltsDiffer(t *testing.T) {
	a, _ := CreateCredential("same-password")
	b, _ := CreateCredential("same-password")
	if a.Salt == b.Salt || a.Digest == b.Digest {
		t.Fatalf("expected distinct salt and digest per credential")
	}
}

func TestCreateCredential_TooShort(t *testing.T) {
	if _, err := CreateCredential("abc"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestVerifyCredential_EmptyOrCorrupt(t *testing.T) {
	if VerifyCredential(domain.Credential{}, "") {
		t.Fatalf("empty credential must never verify")
	}
	if VerifyCredential(domain.Credential{Digest: "zz-not-hex", Salt: "x"}, "anything") {
		t.Fatalf("corrupt digest must never verify")
	}
}
