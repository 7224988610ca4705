// Package repository implements domain repository interfaces using SQLite.
package repository

import (
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"sqlstudio/internal/domain"
)

// timeLayout is the timestamp format stored in the metastore.
const timeLayout = "2006-01-02 15:04:05"

func newID() string {
	return domain.NewID()
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: "resource not found"}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return &domain.ConflictError{Message: "resource already exists"}
	}
	return err
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64Ptr(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

func nullTime(t time.Time) sql.NullString {
	return sql.NullString{String: t.UTC().Format(timeLayout), Valid: true}
}

// parseTime converts a stored timestamp string, logging malformed values
// instead of failing the read.
func parseTime(field, value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		slog.Default().Warn("failed to parse stored timestamp", "field", field, "value", value, "error", err)
	}
	return t
}

func parseTimePtr(field string, value sql.NullString) *time.Time {
	if !value.Valid {
		return nil
	}
	t := parseTime(field, value.String)
	return &t
}

func strPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}

func float64Ptr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}
