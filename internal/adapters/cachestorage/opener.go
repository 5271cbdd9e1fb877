// Package cachestorage opens the cache storage driver selected by configuration.
package cachestorage

import (
	"context"

	"go.trai.ch/offline/internal/adapters/cachestorage/disk"
	"go.trai.ch/offline/internal/adapters/cachestorage/memory"
	"go.trai.ch/offline/internal/adapters/cachestorage/sqlite"
	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StorageOpener = (*Opener)(nil)

// Opener implements ports.StorageOpener for the memory, disk and sqlite drivers.
type Opener struct {
	logger ports.Logger
}

// NewOpener creates an Opener. The logger receives warnings about entries
// dropped by the disk driver.
func NewOpener(logger ports.Logger) *Opener {
	return &Opener{logger: logger}
}

// Open returns the storage for cfg. Every call to the memory driver returns
// a fresh, empty storage.
func (o *Opener) Open(ctx context.Context, cfg domain.StorageConfig) (ports.CacheStorage, error) {
	switch cfg.Driver {
	case domain.StorageMemory:
		return memory.NewStorage(), nil
	case domain.StorageDisk, "":
		path := cfg.Path
		if path == "" {
			path = domain.DefaultDiskCachePath()
		}
		s, err := disk.NewStorage(path, o.logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case domain.StorageSQLite:
		path := cfg.Path
		if path == "" {
			path = domain.DefaultSQLitePath()
		}
		s, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, zerr.With(domain.ErrInvalidStorageDriver, "driver", string(cfg.Driver))
	}
}
