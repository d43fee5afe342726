// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is a Store backed by a local SQLite file, so resolved
// metadata survives between runs. No TTL is applied; use Clear to drop
// entries.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the cache database at path and creates the
// schema if it does not exist.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			source TEXT NOT NULL,
			argument TEXT NOT NULL,
			value BLOB NOT NULL,
			stored_at TEXT NOT NULL,
			PRIMARY KEY (source, argument)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_source ON entries(source)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get returns the value stored for (source, argument).
func (s *SQLiteStore) Get(ctx context.Context, source, argument string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM entries WHERE source = ? AND argument = ?`, source, argument,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry %s/%s: %w", source, argument, err)
	}
	return value, true, nil
}

// PutIfAbsent inserts value unless (source, argument) already has one.
func (s *SQLiteStore) PutIfAbsent(ctx context.Context, source, argument string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO entries (source, argument, value, stored_at) VALUES (?, ?, ?, ?)`,
		source, argument, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry %s/%s: %w", source, argument, err)
	}
	return nil
}

// Stats returns the number of cached entries per source.
func (s *SQLiteStore) Stats(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, count(*) FROM entries GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("querying cache stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return nil, fmt.Errorf("scanning cache stats: %w", err)
		}
		stats[source] = n
	}
	return stats, rows.Err()
}

// Clear deletes cached entries for source, or every entry when source is
// empty. It returns the number of rows removed.
func (s *SQLiteStore) Clear(ctx context.Context, source string) (int64, error) {
	var res sql.Result
	var err error
	if source == "" {
		res, err = s.db.ExecContext(ctx, `DELETE FROM entries`)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM entries WHERE source = ?`, source)
	}
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}
