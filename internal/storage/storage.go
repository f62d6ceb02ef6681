package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/thereayou/voxus/internal/config"
)

// ErrNotExist is returned by Get for a missing key.
var ErrNotExist = errors.New("object does not exist")

// ObjectInfo is what the backend knows about a stored object.
type ObjectInfo struct {
	Size        int64
	ContentType string
}

// Storage holds attachment bytes by key.
type Storage interface {
	// Stat returns ErrNotExist for a missing key.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

func NewStorage(cfg config.Storage) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg.BasePath)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
