// Package cache provides a persistent cache of conversion results.
//
// Entries are keyed by a BLAKE3 hash of the input format, the math
// rendering mode, and the source text, and hold the compact document
// JSON. Large documents are xz-compressed before storage. The backing
// store is SQLite, using the pure Go driver by default and
// mattn/go-sqlite3 when built with the cgo_sqlite tag.
package cache

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"io"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/baig/gopandoc/core/errors"
	"github.com/baig/gopandoc/internal/logging"
)

// compressThreshold is the document size in bytes above which entries
// are xz-compressed before storage.
const compressThreshold = 1024

const schema = `
CREATE TABLE IF NOT EXISTS conversions (
	key        TEXT PRIMARY KEY,
	format     TEXT NOT NULL,
	compressed INTEGER NOT NULL,
	doc        BLOB NOT NULL,
	created_at INTEGER NOT NULL
);
`

// DriverType returns a string identifying the SQLite implementation in
// use: "cgo" for mattn/go-sqlite3, "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// DriverPackage returns the import path of the SQLite driver in use.
func DriverPackage() string {
	return driverPackage
}

// Key derives the cache key for a conversion: a BLAKE3 hash over the
// input format, the math mode, and the source text. NUL separators keep
// the fields from running together.
func Key(format, math, source string) string {
	h := blake3.New()
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write([]byte(math))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))
}

// Cache is a SQLite-backed conversion cache. It is safe for concurrent
// use; SQLite serializes writers internally.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the cache database at path. The
// special path ":memory:" opens an in-memory cache.
func Open(path string) (*Cache, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open cache at %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize cache schema")
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get retrieves the compact document JSON stored under key. A missing
// key is not an error: ok is false. Corrupt rows are treated as misses.
func (c *Cache) Get(ctx context.Context, key string) (doc []byte, ok bool, err error) {
	var compressed bool
	var stored []byte
	row := c.db.QueryRowContext(ctx,
		`SELECT compressed, doc FROM conversions WHERE key = ?`, key)
	switch err := row.Scan(&compressed, &stored); {
	case err == sql.ErrNoRows:
		logging.CacheEvent("miss", key)
		return nil, false, nil
	case err != nil:
		return nil, false, errors.Wrap(err, "cache lookup failed")
	}

	if !compressed {
		logging.CacheEvent("hit", key)
		return stored, true, nil
	}

	r, err := xz.NewReader(bytes.NewReader(stored))
	if err != nil {
		logging.CacheEvent("corrupt", key)
		return nil, false, nil
	}
	doc, err = io.ReadAll(r)
	if err != nil {
		logging.CacheEvent("corrupt", key)
		return nil, false, nil
	}
	logging.CacheEvent("hit", key)
	return doc, true, nil
}

// Put stores the compact document JSON under key, replacing any
// existing entry. Documents above the compression threshold are
// xz-compressed.
func (c *Cache) Put(ctx context.Context, key, format string, doc []byte) error {
	stored := doc
	compressed := false
	if len(doc) > compressThreshold {
		var buf bytes.Buffer
		w, err := xz.NewWriter(&buf)
		if err != nil {
			return errors.Wrap(err, "failed to create compressor")
		}
		if _, err := w.Write(doc); err != nil {
			return errors.Wrap(err, "failed to compress document")
		}
		if err := w.Close(); err != nil {
			return errors.Wrap(err, "failed to finalize compression")
		}
		stored = buf.Bytes()
		compressed = true
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO conversions (key, format, compressed, doc, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		key, format, compressed, stored, time.Now().Unix())
	if err != nil {
		return errors.Wrap(err, "cache store failed")
	}
	logging.CacheEvent("store", key, "bytes", len(stored), "compressed", compressed)
	return nil
}

// Stats describes the cache contents.
type Stats struct {
	Entries     int    `json:"entries"`
	StoredBytes int64  `json:"stored_bytes"`
	Driver      string `json:"driver"`
}

// Stats reports the number of entries and total stored bytes.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	s.Driver = driverType
	row := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(LENGTH(doc)), 0) FROM conversions`)
	if err := row.Scan(&s.Entries, &s.StoredBytes); err != nil {
		return Stats{}, errors.Wrap(err, "cache stats failed")
	}
	return s, nil
}

// Clear removes all entries.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM conversions`); err != nil {
		return errors.Wrap(err, "cache clear failed")
	}
	return nil
}

// Prune removes entries older than maxAge and returns the number
// removed.
func (c *Cache) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).Unix()
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM conversions WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "cache prune failed")
	}
	return res.RowsAffected()
}
