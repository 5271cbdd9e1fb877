// Package sqlite implements cache storage in a single sqlite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/offline/internal/core/domain"
	"go.trai.ch/offline/internal/core/ports"
	"go.trai.ch/zerr"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

var (
	_ ports.CacheStorage = (*Storage)(nil)
	_ ports.Cache        = (*Cache)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS buckets (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	bucket_id   INTEGER NOT NULL REFERENCES buckets(id) ON DELETE CASCADE,
	cache_key   TEXT NOT NULL,
	status      INTEGER NOT NULL,
	status_text TEXT NOT NULL,
	header_json TEXT NOT NULL,
	type        TEXT NOT NULL,
	url         TEXT NOT NULL,
	body        BLOB NOT NULL,
	stored_at   INTEGER NOT NULL,
	PRIMARY KEY (bucket_id, cache_key)
);
`

// Storage keeps buckets in a sqlite database.
type Storage struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, zerr.With(domain.ErrCacheOpenFailed, "path", path)
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheOpenFailed.Error()), "path", cleanPath)
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheOpenFailed.Error()), "path", cleanPath)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheOpenFailed.Error()), "path", cleanPath)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheOpenFailed.Error()), "path", cleanPath)
	}

	return &Storage{db: db}, nil
}

// Open returns the named bucket, creating it if needed.
func (s *Storage) Open(ctx context.Context, name string) (ports.Cache, error) {
	if err := domain.ValidateBucketName(name); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO buckets (name, created_at) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		name, toMillis(time.Now()),
	)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheOpenFailed.Error()), "bucket", name)
	}
	return &Cache{db: s.db, name: name}, nil
}

// Has reports whether the named bucket exists.
func (s *Storage) Has(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM buckets WHERE name = ?`, name).Scan(&one)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		return false, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "bucket", name)
	}
}

// Keys lists bucket names in creation order.
func (s *Storage) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM buckets ORDER BY id`)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheReadFailed.Error())
	}
	defer rows.Close() //nolint:errcheck // Close error is surfaced by rows.Err

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, zerr.Wrap(err, domain.ErrCacheReadFailed.Error())
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheReadFailed.Error())
	}
	return names, nil
}

// Delete removes the named bucket and, by cascade, its entries.
func (s *Storage) Delete(ctx context.Context, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM buckets WHERE name = ?`, name)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrCacheDeleteFailed.Error()), "bucket", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrCacheDeleteFailed.Error()), "bucket", name)
	}
	return n > 0, nil
}

// Match looks req up in every bucket in creation order.
func (s *Storage) Match(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+`
		 FROM entries e JOIN buckets b ON b.id = e.bucket_id
		 WHERE e.cache_key = ?
		 ORDER BY b.id
		 LIMIT 1`,
		req.CacheKey(),
	)
	return scanEntry(row, req.CacheKey())
}

// Close closes the database.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Cache is one bucket row and its entries.
type Cache struct {
	db   *sql.DB
	name string
}

// Name returns the bucket name.
func (c *Cache) Name() string {
	return c.name
}

const entryColumns = `e.status, e.status_text, e.header_json, e.type, e.url, e.body, e.stored_at`

// Match returns the stored response for req.
func (c *Cache) Match(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+`
		 FROM entries e JOIN buckets b ON b.id = e.bucket_id
		 WHERE b.name = ? AND e.cache_key = ?`,
		c.name, req.CacheKey(),
	)
	return scanEntry(row, req.CacheKey())
}

// Put upserts resp under req. The first insertion fixes the key's position
// in Keys.
func (c *Cache) Put(ctx context.Context, req *domain.Request, resp *domain.Response) error {
	key := req.CacheKey()
	if resp == nil {
		return zerr.With(domain.ErrCacheWriteFailed, "key", key)
	}

	header, err := json.Marshal(resp.Header)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}
	storedAt := resp.StoredAt
	if storedAt.IsZero() {
		storedAt = time.Now()
	}
	var rawURL string
	if resp.URL != nil {
		rawURL = resp.URL.String()
	}
	body := resp.Body
	if body == nil {
		body = []byte{}
	}

	res, err := c.db.ExecContext(ctx,
		`INSERT INTO entries (bucket_id, cache_key, status, status_text, header_json, type, url, body, stored_at)
		 SELECT id, ?, ?, ?, ?, ?, ?, ?, ? FROM buckets WHERE name = ?
		 ON CONFLICT(bucket_id, cache_key) DO UPDATE SET
		    status = excluded.status,
		    status_text = excluded.status_text,
		    header_json = excluded.header_json,
		    type = excluded.type,
		    url = excluded.url,
		    body = excluded.body,
		    stored_at = excluded.stored_at`,
		key, resp.Status, resp.StatusText, string(header), string(resp.Type), rawURL, body, toMillis(storedAt),
		c.name,
	)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return zerr.With(zerr.With(domain.ErrCacheWriteFailed, "key", key), "bucket", c.name)
	}
	return nil
}

// Delete removes the entry for req.
func (c *Cache) Delete(ctx context.Context, req *domain.Request) (bool, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM entries
		 WHERE cache_key = ? AND bucket_id = (SELECT id FROM buckets WHERE name = ?)`,
		req.CacheKey(), c.name,
	)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrCacheDeleteFailed.Error()), "key", req.CacheKey())
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrCacheDeleteFailed.Error()), "key", req.CacheKey())
	}
	return n > 0, nil
}

// Keys lists stored cache keys in insertion order.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT e.cache_key
		 FROM entries e JOIN buckets b ON b.id = e.bucket_id
		 WHERE b.name = ?
		 ORDER BY e.rowid`,
		c.name,
	)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "bucket", c.name)
	}
	defer rows.Close() //nolint:errcheck // Close error is surfaced by rows.Err

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "bucket", c.name)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "bucket", c.name)
	}
	return keys, nil
}

func scanEntry(row *sql.Row, key string) (*domain.Response, error) {
	var (
		resp       domain.Response
		headerJSON string
		typ        string
		rawURL     string
		storedAt   int64
	)
	err := row.Scan(&resp.Status, &resp.StatusText, &headerJSON, &typ, &rawURL, &resp.Body, &storedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "key", key)
	}

	if err := json.Unmarshal([]byte(headerJSON), &resp.Header); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheCorrupt.Error()), "key", key)
	}
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	if rawURL != "" {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheCorrupt.Error()), "key", key)
		}
		resp.URL = u
	}
	if resp.Body == nil {
		resp.Body = []byte{}
	}
	resp.Type = domain.ResponseType(typ)
	resp.StoredAt = fromMillis(storedAt)
	return &resp, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
