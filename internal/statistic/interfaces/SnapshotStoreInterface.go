package interfaces

import (
	"context"
	"errors"
	"ghstats/internal/models"
)

// ErrBlobNotFound is returned by a BlobStore when no record exists for a key.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore persists one opaque record per key. Write must replace the previous
// record atomically: readers observe either the old or the new bytes, never a mix.
type BlobStore interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Name() string
	Close() error
}

type SnapshotStoreInterface interface {
	Load(ctx context.Context, key string) (*models.StatsSnapshot, bool)
	Save(ctx context.Context, key string, snapshot *models.StatsSnapshot) error
	Sweep(ctx context.Context) (int, error)
}
