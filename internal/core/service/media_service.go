package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

// MaxUploadSize bounds a single media upload.
const MaxUploadSize = 5 << 20

const sniffLen = 3072

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// MediaService stores complaint images in the configured object store.
type MediaService struct {
	store   ports.ObjectStorage
	baseURL string
	log     zerolog.Logger
}

func NewMediaService(store ports.ObjectStorage, publicBaseURL string, log zerolog.Logger) *MediaService {
	return &MediaService{store: store, baseURL: strings.TrimRight(publicBaseURL, "/"), log: log}
}

// Upload sniffs the content, rejects anything but common raster images and
// stores it under a random name with the detected extension.
func (s *MediaService) Upload(ctx context.Context, originalName string, r io.Reader, size int64) (*domain.Media, error) {
	if size > MaxUploadSize {
		return nil, domain.Invalid("image must be at most %d bytes", MaxUploadSize)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return nil, domain.Invalid("image is empty")
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return nil, domain.Invalid("unsupported image type %s", mt.String())
	}

	filename := uuid.NewString() + mt.Extension()
	body := io.MultiReader(bytes.NewReader(head), r)
	if err := s.store.Put(ctx, filename, body, size, mt.String()); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	s.log.Info().
		Str("filename", filename).
		Str("original", originalName).
		Str("bucket", s.store.Bucket()).
		Msg("media stored")

	return &domain.Media{
		Filename:    filename,
		URI:         s.baseURL + "/media/" + filename,
		ContentType: mt.String(),
		Size:        size,
	}, nil
}

// Open returns a reader for a stored object and its content type.
func (s *MediaService) Open(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	if !validFilename(filename) {
		return nil, "", domain.ErrMediaNotFound
	}
	rc, err := s.store.Get(ctx, filename)
	if err != nil {
		return nil, "", err
	}
	ct := mime.TypeByExtension(path.Ext(filename))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return rc, ct, nil
}

// Remove deletes the object behind ref, which is either a bare filename or a
// URI returned by Upload. Foreign URLs and already missing objects are no-ops.
func (s *MediaService) Remove(ctx context.Context, ref string) error {
	filename := ref
	if strings.Contains(ref, "/") {
		prefix := s.baseURL + "/media/"
		if !strings.HasPrefix(ref, prefix) {
			return nil
		}
		filename = strings.TrimPrefix(ref, prefix)
	}
	if !validFilename(filename) {
		return nil
	}

	err := s.store.Delete(ctx, filename)
	if err != nil && !errors.Is(err, domain.ErrMediaNotFound) {
		return fmt.Errorf("delete media: %w", err)
	}
	s.log.Info().Str("filename", filename).Str("bucket", s.store.Bucket()).Msg("media deleted")
	return nil
}

func validFilename(name string) bool {
	return name != "" && name == path.Base(name) && !strings.HasPrefix(name, ".")
}
