// Package storage selects and builds the media object store.
package storage

import (
	"context"
	"fmt"

	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/tell-platform/complaint-system/internal/core/ports"
	"github.com/tell-platform/complaint-system/internal/infrastructure/config"
	"github.com/tell-platform/complaint-system/internal/infrastructure/db/mongo"
)

// New returns the backend named by cfg.Backend with its bucket ensured.
// GridFS reuses the application database.
func New(ctx context.Context, cfg config.MediaConfig, db *mongodriver.Database) (ports.ObjectStorage, error) {
	var (
		store ports.ObjectStorage
		err   error
	)
	switch cfg.Backend {
	case "", "gridfs":
		store = mongo.NewGridFSStorage(db, cfg.Bucket)
	case "minio":
		store, err = NewMinioStorage(cfg)
	case "gcs":
		store, err = NewGCSStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("media backend %s: %w", cfg.Backend, err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("media bucket %s: %w", store.Bucket(), err)
	}
	return store, nil
}
