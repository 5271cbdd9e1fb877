// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/offline/internal/core/domain"
)

//go:generate mockgen -source=cache_storage.go -destination=mocks/mock_cache_storage.go -package=mocks

// CacheStorage is the set of named cache buckets.
// Every operation is individually atomic; callers need no extra locking.
type CacheStorage interface {
	// Open returns the bucket with the given name, creating it if needed.
	Open(ctx context.Context, name string) (Cache, error)

	// Has reports whether a bucket with the given name exists.
	Has(ctx context.Context, name string) (bool, error)

	// Keys lists bucket names.
	Keys(ctx context.Context) ([]string, error)

	// Delete removes a bucket and all of its entries.
	// It returns false when no such bucket existed.
	Delete(ctx context.Context, name string) (bool, error)

	// Match looks the request up in every bucket, in Keys order.
	// Returns nil, nil if not found.
	Match(ctx context.Context, req *domain.Request) (*domain.Response, error)

	// Close releases resources held by the storage.
	Close() error
}

// Cache is one bucket of request to response entries.
type Cache interface {
	// Name returns the bucket name.
	Name() string

	// Match returns the stored response for req.
	// Returns nil, nil if not found.
	Match(ctx context.Context, req *domain.Request) (*domain.Response, error)

	// Put stores resp under req, replacing any previous entry.
	Put(ctx context.Context, req *domain.Request, resp *domain.Response) error

	// Delete removes the entry for req. It returns false when nothing was stored.
	Delete(ctx context.Context, req *domain.Request) (bool, error)

	// Keys lists the cache keys stored in the bucket.
	Keys(ctx context.Context) ([]string, error)
}
