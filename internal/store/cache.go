// Package store persists fetched catalog documents in SQLite so a restart
// can rebuild the catalog without touching the network.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"lolmath/internal/logging"

	_ "modernc.org/sqlite"
)

// CatalogCache stores raw Data Dragon documents keyed by (version, kind).
// It satisfies catalog.Cache.
type CatalogCache struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	closed bool
}

// Open opens (or creates) the cache database at path. The special path
// ":memory:" opens a private in-memory database.
func Open(path string) (*CatalogCache, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
		}
	}

	c := &CatalogCache{db: db, dbPath: path}
	if err := c.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logging.Store("catalog cache ready at %s", path)
	return c, nil
}

func (c *CatalogCache) initialize() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS catalog_blobs (
		version    TEXT NOT NULL,
		kind       TEXT NOT NULL,
		body       BLOB NOT NULL,
		fetched_at INTEGER NOT NULL,
		PRIMARY KEY (version, kind)
	);
	CREATE INDEX IF NOT EXISTS idx_catalog_blobs_version ON catalog_blobs(version);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Lookup returns the stored document, if any. Read errors are logged and
// reported as a miss.
func (c *CatalogCache) Lookup(version, kind string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, false
	}

	var body []byte
	err := c.db.QueryRow(
		"SELECT body FROM catalog_blobs WHERE version = ? AND kind = ?",
		version, kind,
	).Scan(&body)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logging.StoreWarn("cache lookup %s/%s failed: %v", version, kind, err)
		}
		return nil, false
	}
	logging.StoreDebug("cache hit %s/%s (%d bytes)", version, kind, len(body))
	return body, true
}

// Save inserts or replaces a document.
func (c *CatalogCache) Save(version, kind string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	_, err := c.db.Exec(
		`INSERT INTO catalog_blobs (version, kind, body, fetched_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(version, kind) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		version, kind, body, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", version, kind, err)
	}
	logging.StoreDebug("cached %s/%s (%d bytes)", version, kind, len(body))
	return nil
}

// Prune deletes every document not belonging to keepVersion and returns the
// number of rows removed.
func (c *CatalogCache) Prune(keepVersion string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}

	res, err := c.db.Exec("DELETE FROM catalog_blobs WHERE version <> ?", keepVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}
	if n > 0 {
		logging.Store("pruned %d cached documents older than %s", n, keepVersion)
	}
	return n, nil
}

// Entry describes one cached document without its body.
type Entry struct {
	Version   string
	Kind      string
	Size      int
	FetchedAt time.Time
}

// Entries lists cached documents ordered by version then kind.
func (c *CatalogCache) Entries() ([]Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}

	rows, err := c.db.Query("SELECT version, kind, length(body), fetched_at FROM catalog_blobs ORDER BY version, kind")
	if err != nil {
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var fetched int64
		if err := rows.Scan(&e.Version, &e.Kind, &e.Size, &fetched); err != nil {
			return nil, fmt.Errorf("failed to scan cache row: %w", err)
		}
		e.FetchedAt = time.Unix(fetched, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Path returns the database location.
func (c *CatalogCache) Path() string {
	return c.dbPath
}

// Close closes the database. Further calls are no-ops.
func (c *CatalogCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.db.Close()
}

// ErrClosed is returned by writes after Close.
var ErrClosed = errors.New("catalog cache is closed")
