package tui

import (
	"context"

	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/zerr"
)

// LoadBuckets reads every bucket and its cache keys from storage, in
// storage order.
func LoadBuckets(ctx context.Context, storage ports.CacheStorage) ([]Bucket, error) {
	names, err := storage.Keys(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list buckets")
	}

	buckets := make([]Bucket, 0, len(names))
	for _, name := range names {
		cache, err := storage.Open(ctx, name)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to open bucket"), "bucket", name)
		}
		keys, err := cache.Keys(ctx)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to list entries"), "bucket", name)
		}
		buckets = append(buckets, Bucket{Name: name, Entries: keys})
	}
	return buckets, nil
}
