// Package memory implements cache storage held in process memory.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.CacheStorage = (*Storage)(nil)
	_ ports.Cache        = (*Cache)(nil)
)

// Storage keeps buckets in memory. Buckets are listed in creation order.
type Storage struct {
	mu      sync.RWMutex
	order   []string
	buckets map[string]*Cache
}

// NewStorage creates an empty in-memory storage.
func NewStorage() *Storage {
	return &Storage{buckets: make(map[string]*Cache)}
}

// Open returns the named bucket, creating it if needed.
func (s *Storage) Open(_ context.Context, name string) (ports.Cache, error) {
	if err := domain.ValidateBucketName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.buckets[name]; ok {
		return c, nil
	}
	c := &Cache{name: name, entries: make(map[string]*domain.Response)}
	s.buckets[name] = c
	s.order = append(s.order, name)
	return c, nil
}

// Has reports whether the named bucket exists.
func (s *Storage) Has(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.buckets[name]
	return ok, nil
}

// Keys lists bucket names in creation order.
func (s *Storage) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order), nil
}

// Delete removes the named bucket.
func (s *Storage) Delete(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[name]; !ok {
		return false, nil
	}
	delete(s.buckets, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
	return true, nil
}

// Match looks req up in every bucket in creation order.
func (s *Storage) Match(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	s.mu.RLock()
	caches := make([]*Cache, 0, len(s.order))
	for _, name := range s.order {
		caches = append(caches, s.buckets[name])
	}
	s.mu.RUnlock()

	for _, c := range caches {
		resp, err := c.Match(ctx, req)
		if err != nil || resp != nil {
			return resp, err
		}
	}
	return nil, nil
}

// Close is a no-op.
func (s *Storage) Close() error {
	return nil
}

// Cache is one in-memory bucket.
type Cache struct {
	name    string
	mu      sync.RWMutex
	order   []string
	entries map[string]*domain.Response
}

// Name returns the bucket name.
func (c *Cache) Name() string {
	return c.name
}

// Match returns a copy of the stored response for req.
func (c *Cache) Match(_ context.Context, req *domain.Request) (*domain.Response, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[req.CacheKey()].Clone(), nil
}

// Put stores a copy of resp under req.
func (c *Cache) Put(_ context.Context, req *domain.Request, resp *domain.Response) error {
	key := req.CacheKey()
	if resp == nil {
		return zerr.With(domain.ErrCacheWriteFailed, "key", key)
	}
	stored := resp.Clone()
	if stored.StoredAt.IsZero() {
		stored.StoredAt = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = stored
	return nil
}

// Delete removes the entry for req.
func (c *Cache) Delete(_ context.Context, req *domain.Request) (bool, error) {
	key := req.CacheKey()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false, nil
	}
	delete(c.entries, key)
	c.order = slices.DeleteFunc(c.order, func(k string) bool { return k == key })
	return true, nil
}

// Keys lists stored cache keys in insertion order.
func (c *Cache) Keys(_ context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.order), nil
}
