package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/tempo/internal/db"
)

// NewTestDB opens a migrated in-memory SQLite store, closed on cleanup.
// The pool is pinned to one connection, so code under test must not read
// through the outer handle while a transaction is open.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openTestDB(t, ":memory:")
}

// NewFileTestDB opens a migrated file-backed store in a temp directory.
// Every pooled connection sees the same data, so concurrent callers race
// for real instead of queueing on a single connection.
func NewFileTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openTestDB(t, filepath.Join(t.TempDir(), "tempo_test.db"))
}

func openTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	if err != nil {
		t.Fatalf("opening test database %s: %v", path, err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// NewTestUoW returns the SQLite unit of work over database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
