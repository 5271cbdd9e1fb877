package ports

import (
	"context"

	"go.trai.ch/offline/internal/core/domain"
)

// StorageOpener opens the cache storage selected by configuration.
//
//go:generate mockgen -source=storage_opener.go -destination=mocks/mock_storage_opener.go -package=mocks
type StorageOpener interface {
	// Open returns the storage for cfg. Callers close it when done.
	Open(ctx context.Context, cfg domain.StorageConfig) (CacheStorage, error)
}
