package ports

import (
	"context"
	"io"
	"time"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

// Cache is a best-effort key/value store for derived read models.
type Cache interface {
	// Get decodes the cached value into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ObjectStorage defines common object operations across media backends.
// Get returns domain.ErrMediaNotFound for missing keys.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

type VerificationMail struct {
	Email     string
	FirstName string
	Link      string
}

type ComplaintClosedMail struct {
	Email       string
	FirstName   string
	ComplaintID string
	Title       string
	Link        string
}

type AuthorityWelcomeMail struct {
	Email         string
	AuthorityName string
	Username      string
	Link          string
}

// Notifier sends transactional mail. Callers treat every error as non-fatal.
type Notifier interface {
	SendVerification(ctx context.Context, m VerificationMail) error
	SendComplaintClosed(ctx context.Context, m ComplaintClosedMail) error
	SendAuthorityWelcome(ctx context.Context, m AuthorityWelcomeMail) error
}

type MediaService interface {
	Upload(ctx context.Context, originalName string, r io.Reader, size int64) (*domain.Media, error)
	Open(ctx context.Context, filename string) (io.ReadCloser, string, error)
	MediaRemover
}

// MediaRemover deletes a stored object given the media reference saved on a
// complaint. References to media this service did not store are ignored.
type MediaRemover interface {
	Remove(ctx context.Context, ref string) error
}
