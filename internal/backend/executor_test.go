package backend

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlstudio/internal/domain"
)

func newTestExecutor(t *testing.T) *SQLExecutor {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLExecutor("test", db, slog.New(slog.DiscardHandler))
}

func TestExecuteQuery(t *testing.T) {
	exec := newTestExecutor(t)
	ctx := context.Background()

	_, err := exec.ExecuteQuery(ctx, "CREATE TABLE users (id INTEGER, name TEXT)")
	require.NoError(t, err)
	_, err = exec.ExecuteQuery(ctx, "INSERT INTO users VALUES (1, 'alice'), (2, 'bob')")
	require.NoError(t, err)

	table, err := exec.ExecuteQuery(ctx, "SELECT id, name FROM users ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, table.Columns)
	require.Equal(t, 2, table.RowCount())
	assert.Equal(t, int64(1), table.Rows[0]["id"])
	assert.Equal(t, "alice", table.Rows[0]["name"])
	assert.Equal(t, "bob", table.Rows[1]["name"])
}

func TestExecuteQueryEmptyResult(t *testing.T) {
	exec := newTestExecutor(t)
	ctx := context.Background()

	_, err := exec.ExecuteQuery(ctx, "CREATE TABLE empty_t (id INTEGER)")
	require.NoError(t, err)

	table, err := exec.ExecuteQuery(ctx, "SELECT id FROM empty_t")
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, table.Columns)
	assert.Equal(t, 0, table.RowCount())
}

func TestExecuteQuerySyntaxError(t *testing.T) {
	exec := newTestExecutor(t)

	_, err := exec.ExecuteQuery(context.Background(), "SELEC broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test query failed")
}

func TestRegistryResolve(t *testing.T) {
	registry := NewRegistry()
	exec := newTestExecutor(t)
	registry.Register(domain.StepTypeDuckDBQuery, exec)

	got, ok := registry.Resolve(domain.StepTypeDuckDBQuery)
	assert.True(t, ok)
	assert.Same(t, exec, got)

	_, ok = registry.Resolve(domain.StepTypeSQLServerQuery)
	assert.False(t, ok)
}
