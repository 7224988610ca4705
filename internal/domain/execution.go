package domain

import "time"

// Execution status constants.
const (
	ExecutionStatusPending   = "pending"
	ExecutionStatusRunning   = "running"
	ExecutionStatusCompleted = "completed"
	ExecutionStatusFailed    = "failed"
)

// Step result status constants.
const (
	StepStatusSuccess = "success"
	StepStatusFailed  = "failed"
	StepStatusSkipped = "skipped"
)

// Execution is one timed, stateful run of a job. Created by the orchestrator
// at the start of a run, mutated only by the orchestrator until terminal,
// never reused across runs.
type Execution struct {
	ID              string
	JobID           string
	Status          string
	TriggerType     string
	StartedAt       *time.Time
	CompletedAt     *time.Time
	DurationSeconds *float64
	ErrorMessage    *string
	RowsProcessed   *int64
	StepResults     []StepResult
	CreatedAt       time.Time
}

// StepResult records the outcome of a single step within an execution.
// Results are appended strictly in step order, regardless of the workflow's
// error-handling mode.
type StepResult struct {
	ID           string
	ExecutionID  string
	StepNumber   int
	StepName     string
	Status       string
	RowsAffected *int64
	ErrorMessage *string
	StartedAt    time.Time
	CompletedAt  time.Time
}

// ExecutionFilter holds filter parameters for querying executions.
type ExecutionFilter struct {
	JobID  *string
	Status *string
	Page   PageRequest
}
