// Package disk implements cache storage on the local filesystem.
//
// Each bucket is a directory holding a bucket.json descriptor and one JSON
// file per entry. Entry files are named by the xxhash of the cache key and
// carry a blake3 digest of the body that is checked on every read.
package disk

import (
	"cmp"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/zerr"
	"lukechampine.com/blake3"
)

var (
	_ ports.CacheStorage = (*Storage)(nil)
	_ ports.Cache        = (*Cache)(nil)
)

const (
	bucketFileName = "bucket.json"
	entryExt       = ".json"
)

// bucketMeta is the descriptor stored at the root of every bucket directory.
type bucketMeta struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// envelope is the on-disk form of one cache entry.
type envelope struct {
	Key        string              `json:"key"`
	Status     int                 `json:"status"`
	StatusText string              `json:"statusText,omitempty"`
	Header     http.Header         `json:"header,omitempty"`
	Type       domain.ResponseType `json:"type"`
	URL        string              `json:"url,omitempty"`
	StoredAt   time.Time           `json:"storedAt"`
	Digest     string              `json:"digest"`
	Body       []byte              `json:"body"`
}

// Storage keeps buckets under a root directory.
type Storage struct {
	root   string
	logger ports.Logger

	// mu serializes bucket creation and removal.
	mu sync.Mutex
}

// NewStorage creates the root directory if needed and returns a storage on it.
func NewStorage(root string, logger ports.Logger) (*Storage, error) {
	if err := os.MkdirAll(root, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheOpenFailed.Error()), "path", root)
	}
	return &Storage{root: root, logger: logger}, nil
}

// Root returns the storage directory.
func (s *Storage) Root() string {
	return s.root
}

func (s *Storage) bucketDir(name string) string {
	return filepath.Join(s.root, fmt.Sprintf("%016x", xxhash.Sum64String(name)))
}

// Open returns the named bucket, creating its directory if needed.
func (s *Storage) Open(_ context.Context, name string) (ports.Cache, error) {
	if err := domain.ValidateBucketName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.bucketDir(name)
	if _, err := readMeta(dir); err == nil {
		return &Cache{name: name, dir: dir, logger: s.logger}, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheOpenFailed.Error()), "bucket", name)
	}

	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheOpenFailed.Error()), "bucket", name)
	}
	data, err := json.Marshal(bucketMeta{Name: name, CreatedAt: time.Now().UTC()})
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheOpenFailed.Error())
	}
	if err := writeFileAtomic(filepath.Join(dir, bucketFileName), data); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheOpenFailed.Error()), "bucket", name)
	}
	return &Cache{name: name, dir: dir, logger: s.logger}, nil
}

// Has reports whether the named bucket exists.
func (s *Storage) Has(_ context.Context, name string) (bool, error) {
	if domain.ValidateBucketName(name) != nil {
		return false, nil
	}
	_, err := readMeta(s.bucketDir(name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "bucket", name)
	}
}

// Keys lists bucket names in creation order.
func (s *Storage) Keys(_ context.Context) ([]string, error) {
	metas, err := s.buckets()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(metas))
	for i, m := range metas {
		names[i] = m.Name
	}
	return names, nil
}

func (s *Storage) buckets() ([]bucketMeta, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", s.root)
	}

	metas := make([]bucketMeta, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := readMeta(filepath.Join(s.root, e.Name()))
		if err != nil {
			// Directories without a readable descriptor are not buckets.
			continue
		}
		metas = append(metas, meta)
	}
	slices.SortFunc(metas, func(a, b bucketMeta) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return metas, nil
}

// Delete removes the named bucket and its entries.
func (s *Storage) Delete(_ context.Context, name string) (bool, error) {
	if domain.ValidateBucketName(name) != nil {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.bucketDir(name)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrCacheDeleteFailed.Error()), "bucket", name)
	}
	return true, nil
}

// Match looks req up in every bucket in creation order.
func (s *Storage) Match(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	metas, err := s.buckets()
	if err != nil {
		return nil, err
	}
	for _, m := range metas {
		c := &Cache{name: m.Name, dir: s.bucketDir(m.Name), logger: s.logger}
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

// Cache is one bucket directory.
type Cache struct {
	name   string
	dir    string
	logger ports.Logger
}

// Name returns the bucket name.
func (c *Cache) Name() string {
	return c.name
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%016x", xxhash.Sum64String(key))+entryExt)
}

// Match returns the stored response for req. An entry that fails to decode
// or whose body does not match its digest is removed and reported as a miss.
func (c *Cache) Match(_ context.Context, req *domain.Request) (*domain.Response, error) {
	key := req.CacheKey()
	path := c.entryPath(key)

	//nolint:gosec // Path is constructed from the storage root and a hashed key
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "key", key)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.discard(path, key, zerr.Wrap(err, domain.ErrCacheCorrupt.Error()))
		return nil, nil
	}
	if env.Key != key {
		// Hash collision with another key.
		return nil, nil
	}
	if env.Digest != digest(env.Body) {
		c.discard(path, key, domain.ErrCacheCorrupt)
		return nil, nil
	}

	return env.response()
}

func (c *Cache) discard(path, key string, cause error) {
	c.logger.Warn(fmt.Sprintf("dropping cache entry %s in %s: %v", key, c.name, cause))
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Error(zerr.With(zerr.Wrap(err, domain.ErrCacheDeleteFailed.Error()), "path", path))
	}
}

// Put stores resp under req, replacing any previous entry. Writes go through
// a temporary file so readers never observe a partial entry.
func (c *Cache) Put(_ context.Context, req *domain.Request, resp *domain.Response) error {
	key := req.CacheKey()
	if resp == nil {
		return zerr.With(domain.ErrCacheWriteFailed, "key", key)
	}
	if _, err := readMeta(c.dir); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key), "bucket", c.name)
	}

	env := newEnvelope(key, resp)
	data, err := json.Marshal(env)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}
	if err := writeFileAtomic(c.entryPath(key), data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}
	return nil
}

// Delete removes the entry for req.
func (c *Cache) Delete(_ context.Context, req *domain.Request) (bool, error) {
	key := req.CacheKey()
	err := os.Remove(c.entryPath(key))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, zerr.With(zerr.Wrap(err, domain.ErrCacheDeleteFailed.Error()), "key", key)
	}
}

// Keys lists stored cache keys ordered by the time they were stored.
func (c *Cache) Keys(_ context.Context) ([]string, error) {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "bucket", c.name)
	}

	type stored struct {
		key string
		at  time.Time
	}
	var entries []stored
	for _, f := range files {
		if f.IsDir() || f.Name() == bucketFileName || !strings.HasSuffix(f.Name(), entryExt) {
			continue
		}
		//nolint:gosec // Path is constructed from the bucket directory listing
		data, err := os.ReadFile(filepath.Join(c.dir, f.Name()))
		if err != nil {
			continue
		}
		var env envelope
		if json.Unmarshal(data, &env) != nil || env.Key == "" {
			continue
		}
		entries = append(entries, stored{key: env.Key, at: env.StoredAt})
	}
	slices.SortFunc(entries, func(a, b stored) int {
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}
	return keys, nil
}

func newEnvelope(key string, resp *domain.Response) envelope {
	storedAt := resp.StoredAt
	if storedAt.IsZero() {
		storedAt = time.Now()
	}
	env := envelope{
		Key:        key,
		Status:     resp.Status,
		StatusText: resp.StatusText,
		Header:     resp.Header,
		Type:       resp.Type,
		StoredAt:   storedAt.UTC(),
		Digest:     digest(resp.Body),
		Body:       resp.Body,
	}
	if resp.URL != nil {
		env.URL = resp.URL.String()
	}
	return env
}

func (e envelope) response() (*domain.Response, error) {
	resp := &domain.Response{
		Status:     e.Status,
		StatusText: e.StatusText,
		Header:     e.Header,
		Body:       e.Body,
		Type:       e.Type,
		StoredAt:   e.StoredAt,
	}
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	if resp.Body == nil {
		resp.Body = []byte{}
	}
	if e.URL != "" {
		u, err := url.Parse(e.URL)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "key", e.Key)
		}
		resp.URL = u
	}
	return resp, nil
}

func digest(body []byte) string {
	sum := blake3.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func readMeta(dir string) (bucketMeta, error) {
	var meta bucketMeta
	//nolint:gosec // Path is constructed from the storage root and a hashed name
	data, err := os.ReadFile(filepath.Join(dir, bucketFileName))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, err
	}
	return meta, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Best effort cleanup after rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
