package db

import (
	"database/sql"
	"testing"
)

// NewTestDB opens an in-memory SQLite database with all migrations applied.
// The database is closed automatically when the test finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	// A single connection keeps the in-memory database alive across calls.
	database.SetMaxOpenConns(1)

	if err := RunMigrations(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	t.Cleanup(func() { _ = database.Close() })
	return database
}
