// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/lineage-engine/pkg/types"
)

// SQLite is the persistent Store. It survives process restarts, so repeated
// CLI invocations within the TTL reuse earlier results without touching the
// upstream.
type SQLite struct {
	db         *sql.DB
	ttl        time.Duration
	maxEntries int

	now func() time.Time // test hook
}

// NewSQLite opens or creates the cache database at path, creating parent
// directories and the schema as needed.
func NewSQLite(path string, ttl time.Duration, maxEntries int) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &SQLite{db: db, ttl: ttl, maxEntries: maxEntries, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS results (
		fingerprint TEXT PRIMARY KEY,
		payload     TEXT NOT NULL,
		inserted_at INTEGER NOT NULL
	)`)
	return err
}

// Get returns the records stored under key while the entry is younger than
// the TTL. Expired rows are deleted and read as misses.
func (s *SQLite) Get(ctx context.Context, key string) ([]types.Record, bool, error) {
	var payload string
	var insertedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, inserted_at FROM results WHERE fingerprint = ?`, key,
	).Scan(&payload, &insertedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	if s.now().Sub(time.Unix(insertedAt, 0)) >= s.ttl {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM results WHERE fingerprint = ?`, key)
		return nil, false, nil
	}

	var records []types.Record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		// Corrupt entry: drop it and report a miss.
		_, _ = s.db.ExecContext(ctx, `DELETE FROM results WHERE fingerprint = ?`, key)
		return nil, false, nil
	}
	return records, true, nil
}

// Put stores records under key, overwriting any prior entry and trimming
// the oldest-inserted rows beyond the entry cap.
func (s *SQLite) Put(ctx context.Context, key string, records []types.Record) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (fingerprint, payload, inserted_at) VALUES (?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET payload = excluded.payload, inserted_at = excluded.inserted_at`,
		key, string(payload), s.now().Unix())
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}

	if s.maxEntries > 0 {
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM results WHERE fingerprint NOT IN (
				SELECT fingerprint FROM results ORDER BY inserted_at DESC LIMIT ?
			)`, s.maxEntries)
		if err != nil {
			return fmt.Errorf("trimming cache: %w", err)
		}
	}
	return nil
}

// Close releases the database connection.
func (s *SQLite) Close() error { return s.db.Close() }

var _ Store = (*SQLite)(nil)
