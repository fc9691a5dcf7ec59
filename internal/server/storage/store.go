// Package storage keeps uploaded file content. The filesystem backend
// serves downloads itself; the S3 backend hands out presigned links.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophdrive/internal/server/config"
)

// ErrNotFound is returned when no content is stored under a key.
var ErrNotFound = errors.New("blob not found")

// Object tells the caller where stored content can be read from. Exactly
// one field is set.
type Object struct {
	// Path is a local file to stream as an attachment.
	Path string
	// URL is a time-limited link the client fetches on its own.
	URL string
}

type Store interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (int64, error)
	Locate(ctx context.Context, key, fileName string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by cfg.BlobBackend.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.BlobBackend {
	case config.BlobFS:
		fs := NewFileSystemStore(cfg.StorageDir)
		if err := fs.EnsureDir(); err != nil {
			return nil, err
		}
		return fs, nil
	case config.BlobS3:
		return NewS3Store(ctx, S3Options{
			Endpoint:  cfg.S3BaseEndpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3RootUser,
			SecretKey: cfg.S3RootPassword,
		})
	}
	return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
}
