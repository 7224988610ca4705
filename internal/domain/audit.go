package domain

import "time"

// AuditEntry represents a single audit log record.
type AuditEntry struct {
	ID            string
	PrincipalName string
	Action        string
	JobName       *string
	ExecutionID   *string
	Status        string // "success" or "error"
	ErrorMessage  *string
	CreatedAt     time.Time
}

// AuditFilter holds filter parameters for listing audit entries.
type AuditFilter struct {
	Action        *string
	PrincipalName *string
	Page          PageRequest
}
