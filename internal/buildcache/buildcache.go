// Package buildcache stores per-module metadata of previous compiles in a
// SQLite database, so the build driver can skip re-checking modules whose
// sources are unchanged.
package buildcache

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is the cached record for one module.
type Entry struct {
	Module      string
	Path        string
	Hash        string
	Session     string
	Diagnostics int
	CheckedAt   time.Time
}

// Cache is a handle to the on-disk build cache.
type Cache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS modules (
	module      TEXT PRIMARY KEY,
	path        TEXT NOT NULL,
	hash        TEXT NOT NULL,
	session     TEXT NOT NULL,
	diagnostics INTEGER NOT NULL,
	checked_at  TEXT NOT NULL
);
`

// Open opens (and if needed creates) the cache at the given path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening build cache %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing build cache %s: %w", path, err)
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached entry for a module, if any.
func (c *Cache) Get(module string) (Entry, bool, error) {
	row := c.db.QueryRow(
		`SELECT module, path, hash, session, diagnostics, checked_at
		 FROM modules WHERE module = ?`,
		module,
	)

	var entry Entry
	var checkedAt string

	err := row.Scan(
		&entry.Module, &entry.Path, &entry.Hash,
		&entry.Session, &entry.Diagnostics, &checkedAt,
	)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("reading build cache: %w", err)
	}

	if parsed, parseErr := time.Parse(time.RFC3339, checkedAt); parseErr == nil {
		entry.CheckedAt = parsed
	}

	return entry, true, nil
}

// Put inserts or replaces the entry for a module.
func (c *Cache) Put(entry Entry) error {
	checkedAt := entry.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = time.Now()
	}

	_, err := c.db.Exec(
		`INSERT INTO modules (module, path, hash, session, diagnostics, checked_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(module) DO UPDATE SET
			path = excluded.path,
			hash = excluded.hash,
			session = excluded.session,
			diagnostics = excluded.diagnostics,
			checked_at = excluded.checked_at`,
		entry.Module, entry.Path, entry.Hash,
		entry.Session, entry.Diagnostics, checkedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing build cache: %w", err)
	}

	return nil
}

// Fresh reports whether the cached entry for module matches the given
// content hash and recorded no diagnostics.
func (c *Cache) Fresh(module, hash string) (bool, error) {
	entry, ok, err := c.Get(module)
	if err != nil || !ok {
		return false, err
	}
	return entry.Hash == hash && entry.Diagnostics == 0, nil
}
