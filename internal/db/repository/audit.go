package repository

import (
	"context"
	"database/sql"

	"sqlstudio/internal/db/dbstore"
	"sqlstudio/internal/domain"
)

// Compile-time check.
var _ domain.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implements AuditRepository using SQLite.
type AuditRepo struct {
	q  *dbstore.Queries
	db *sql.DB
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{q: dbstore.New(db), db: db}
}

// Insert appends an audit entry.
func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	status := e.Status
	if status == "" {
		status = "success"
	}
	return mapDBError(r.q.CreateAuditEntry(ctx, dbstore.CreateAuditEntryParams{
		ID:            newID(),
		PrincipalName: e.PrincipalName,
		Action:        e.Action,
		JobName:       nullStringPtr(e.JobName),
		ExecutionID:   nullStringPtr(e.ExecutionID),
		Status:        status,
		ErrorMessage:  nullStringPtr(e.ErrorMessage),
	}))
}

// List returns a filtered, paginated list of audit entries.
func (r *AuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	action := ""
	if filter.Action != nil {
		action = *filter.Action
	}
	principal := ""
	if filter.PrincipalName != nil {
		principal = *filter.PrincipalName
	}

	total, err := r.q.CountAuditEntries(ctx, dbstore.CountAuditEntriesParams{
		Action:        action,
		PrincipalName: principal,
	})
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q.ListAuditEntries(ctx, dbstore.ListAuditEntriesParams{
		Action:        action,
		PrincipalName: principal,
		Limit:         int64(filter.Page.Limit()),
		Offset:        int64(filter.Page.Offset()),
	})
	if err != nil {
		return nil, 0, err
	}

	entries := make([]domain.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.AuditEntry{
			ID:            row.ID,
			PrincipalName: row.PrincipalName,
			Action:        row.Action,
			JobName:       strPtr(row.JobName),
			ExecutionID:   strPtr(row.ExecutionID),
			Status:        row.Status,
			ErrorMessage:  strPtr(row.ErrorMessage),
			CreatedAt:     parseTime("created_at", row.CreatedAt),
		})
	}
	return entries, total, nil
}
