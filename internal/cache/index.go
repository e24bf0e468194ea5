package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotIndexed is returned when no metadata exists for an origin URL.
var ErrNotIndexed = errors.New("asset not indexed")

// Index is the persisted metadata index for cached assets: stored file name,
// origin URL, and content type, keyed by origin URL.
type Index struct {
	db *sql.DB
}

const indexSchema = `
CREATE TABLE IF NOT EXISTS assets (
	origin_url   TEXT PRIMARY KEY,
	stored_name  TEXT NOT NULL,
	content_type TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL
);`

// OpenIndex opens (creating if needed) the metadata index at dbPath. WAL mode
// keeps concurrent lookups from blocking on writers.
func OpenIndex(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close closes the index.
func (i *Index) Close() error {
	return i.db.Close()
}

// Register records metadata for a stored asset. Re-registering the same
// origin URL replaces the previous row, so duplicate stores are harmless.
func (i *Index) Register(ctx context.Context, storedName, originURL, contentType string) error {
	_, err := i.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO assets (origin_url, stored_name, content_type, created_at)
		 VALUES (?, ?, ?, ?)`,
		originURL, storedName, contentType, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("registering %s: %w", originURL, err)
	}
	return nil
}

// Lookup returns the stored name and content type recorded for originURL.
func (i *Index) Lookup(ctx context.Context, originURL string) (storedName, contentType string, err error) {
	row := i.db.QueryRowContext(ctx,
		`SELECT stored_name, content_type FROM assets WHERE origin_url = ?`, originURL)
	if err := row.Scan(&storedName, &contentType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrNotIndexed
		}
		return "", "", fmt.Errorf("looking up %s: %w", originURL, err)
	}
	return storedName, contentType, nil
}
