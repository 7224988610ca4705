// Package backend provides query executors for the external databases a
// workflow step can target, plus a resolver mapping step types to them.
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/microsoft/go-mssqldb"

	"sqlstudio/internal/domain"
)

// SQLExecutor runs queries against a single database/sql connection pool
// and materializes the full result set in memory.
type SQLExecutor struct {
	name   string
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLExecutor(name string, db *sql.DB, logger *slog.Logger) *SQLExecutor {
	return &SQLExecutor{name: name, db: db, logger: logger.With("backend", name)}
}

var _ domain.QueryExecutor = (*SQLExecutor)(nil)

func (e *SQLExecutor) Name() string { return e.name }

func (e *SQLExecutor) Close() error { return e.db.Close() }

// Ping verifies connectivity. Used at startup so a misconfigured DSN
// surfaces before the first workflow run.
func (e *SQLExecutor) Ping(ctx context.Context) error {
	if err := e.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", e.name, err)
	}
	return nil
}

func (e *SQLExecutor) ExecuteQuery(ctx context.Context, query string) (*domain.Table, error) {
	start := time.Now()

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s query failed: %w", e.name, err)
	}
	defer rows.Close()

	table, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s scan failed: %w", e.name, err)
	}

	e.logger.Debug("query executed",
		"rows", table.RowCount(),
		"duration_ms", time.Since(start).Milliseconds())
	return table, nil
}

func scanRows(rows *sql.Rows) (*domain.Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var resultRows []map[string]interface{}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		// Convert byte slices to strings for JSON serialization
		row := make(map[string]interface{}, len(cols))
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				row[cols[i]] = string(b)
			} else {
				row[cols[i]] = v
			}
		}
		resultRows = append(resultRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.Table{Columns: cols, Rows: resultRows}, nil
}

// OpenSQLServer opens a SQL Server connection pool from a DSN.
func OpenSQLServer(dsn string, logger *slog.Logger) (*SQLExecutor, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlserver: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return NewSQLExecutor("sqlserver", db, logger), nil
}

// OpenRedshift opens a Redshift connection pool. Redshift speaks the
// Postgres wire protocol, so the pq driver is used.
func OpenRedshift(dsn string, logger *slog.Logger) (*SQLExecutor, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open redshift: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return NewSQLExecutor("redshift", db, logger), nil
}

// OpenDuckDB opens an embedded DuckDB database at the given path, or an
// in-memory database when path is empty.
func OpenDuckDB(path string, logger *slog.Logger) (*SQLExecutor, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return NewSQLExecutor("duckdb", db, logger), nil
}
