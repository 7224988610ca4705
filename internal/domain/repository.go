package domain

import (
	"context"
	"time"
)

// JobRepository provides persistence for job definitions.
type JobRepository interface {
	CreateJob(ctx context.Context, job *Job) (*Job, error)
	GetJobByID(ctx context.Context, id string) (*Job, error)
	GetJobByName(ctx context.Context, name string) (*Job, error)
	ListJobs(ctx context.Context, page PageRequest) ([]Job, int64, error)
	UpdateJob(ctx context.Context, id string, req UpdateJobRequest) (*Job, error)
	DeleteJob(ctx context.Context, id string) error
	ListScheduledJobs(ctx context.Context) ([]Job, error)
	UpdateLastRunTime(ctx context.Context, id string, t time.Time) error
}

// ExecutionRepository provides persistence for execution records and their
// step results. The orchestrator writes incrementally: create, mark running,
// append step results, then finish.
type ExecutionRepository interface {
	CreateExecution(ctx context.Context, jobID, triggerType string) (*Execution, error)
	GetExecutionByID(ctx context.Context, id string) (*Execution, error)
	ListExecutions(ctx context.Context, filter ExecutionFilter) ([]Execution, int64, error)
	MarkRunning(ctx context.Context, id string, startedAt time.Time) error
	MarkFinished(ctx context.Context, id string, status string, errMsg *string, rowsProcessed *int64, duration float64) error
	AppendStepResult(ctx context.Context, result *StepResult) error
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditRepository records and lists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]AuditEntry, int64, error)
}
