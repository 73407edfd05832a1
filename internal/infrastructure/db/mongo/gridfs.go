package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

const defaultBucket = "uploads"

// GridFSStorage implements ports.ObjectStorage on a GridFS bucket.
// The bucket API carries deadlines instead of contexts, so every call opens a
// fresh handle with the context's deadline applied.
type GridFSStorage struct {
	db     *mongo.Database
	bucket string
}

func NewGridFSStorage(db *mongo.Database, bucket string) *GridFSStorage {
	if bucket == "" {
		bucket = defaultBucket
	}
	return &GridFSStorage{db: db, bucket: bucket}
}

func (g *GridFSStorage) open(ctx context.Context) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(g.db, options.GridFSBucket().SetName(g.bucket))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultTimeout)
	}
	if err := b.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	if err := b.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	return b, nil
}

// EnsureBucket is a no-op: GridFS creates its collections on first write.
func (g *GridFSStorage) EnsureBucket(context.Context) error { return nil }

func (g *GridFSStorage) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) error {
	b, err := g.open(ctx)
	if err != nil {
		return err
	}
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	if _, err := b.UploadFromStream(key, r, opts); err != nil {
		return fmt.Errorf("gridfs upload: %w", err)
	}
	return nil
}

func (g *GridFSStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	b, err := g.open(ctx)
	if err != nil {
		return nil, err
	}
	stream, err := b.OpenDownloadStreamByName(key)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, domain.ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("gridfs download: %w", err)
	}
	return stream, nil
}

func (g *GridFSStorage) Delete(ctx context.Context, key string) error {
	b, err := g.open(ctx)
	if err != nil {
		return err
	}
	cur, err := b.Find(bson.M{"filename": key})
	if err != nil {
		return fmt.Errorf("gridfs find: %w", err)
	}
	var files []struct {
		ID any `bson:"_id"`
	}
	if err := cur.All(ctx, &files); err != nil {
		return fmt.Errorf("gridfs find: %w", err)
	}
	if len(files) == 0 {
		return domain.ErrMediaNotFound
	}
	for _, f := range files {
		if err := b.Delete(f.ID); err != nil {
			return fmt.Errorf("gridfs delete: %w", err)
		}
	}
	return nil
}

func (g *GridFSStorage) Bucket() string {
	return g.bucket
}
