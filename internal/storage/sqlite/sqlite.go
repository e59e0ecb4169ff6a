// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/splitledger/splitledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	ids *idAllocator
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, ids: newIDAllocator(db)}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// idAllocator hands out monotonic IDs per sequence, seeded from the
// current MAX of the backing column on first use. Allocation is guarded
// by a mutex so concurrent creations cannot race to the same ID.
type idAllocator struct {
	db   *sql.DB
	mu   sync.Mutex
	next map[string]int64
}

func newIDAllocator(db *sql.DB) *idAllocator {
	return &idAllocator{db: db, next: make(map[string]int64)}
}

// Next returns the next ID for the sequence backed by table.column.
func (a *idAllocator) Next(ctx context.Context, table, column string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n, seeded := a.next[table]
	if !seeded {
		var max sql.NullInt64
		query := fmt.Sprintf("SELECT MAX(%s) FROM %s", column, table)
		if err := a.db.QueryRowContext(ctx, query).Scan(&max); err != nil {
			return 0, fmt.Errorf("failed to seed id sequence for %s: %w", table, err)
		}
		n = max.Int64 + 1
	}
	a.next[table] = n + 1
	return n, nil
}
