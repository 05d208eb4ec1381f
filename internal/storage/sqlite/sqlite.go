// Package sqlite implements plan storage on an embedded SQLite database.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrStaleIteration is returned by StorePlan when the caller's expected
// iteration no longer matches the stored one, meaning the plan was updated
// by someone else since the caller last read it.
var ErrStaleIteration = errors.New("plan iteration is stale")

// Store is a SQLite-backed plan store. Safe for concurrent use; writers
// serialize on SQLite's own locking with a busy timeout.
type Store struct {
	db       *sql.DB
	keepRuns int
}

// New opens (creating if necessary) the database at path and applies the
// schema. Pass ":memory:" for an in-memory database. keepRuns bounds the
// validation history retained per plan; zero keeps everything.
func New(path string, keepRuns int) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	dsn := "file:" + path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(10000)" +
		"&_txlock=immediate"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// In-memory databases exist per connection, so the pool must collapse
	// to a single connection or each query may see a different database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, keepRuns: keepRuns}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Timestamps are stored as text rather than relying on driver time
// conversion, so rows stay readable with any SQLite client. The layout is
// fixed-width UTC so that lexicographic order matches time order, which the
// ORDER BY clauses on created_at and updated_at depend on.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	// RFC3339Nano also accepts the padded layout, and tolerates rows
	// written by hand or by other tools.
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}
