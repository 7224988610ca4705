package repository

import (
	"context"
	"database/sql"
	"time"

	"sqlstudio/internal/db/dbstore"
	"sqlstudio/internal/domain"
)

// Compile-time check.
var _ domain.ExecutionRepository = (*ExecutionRepo)(nil)

// ExecutionRepo implements ExecutionRepository using SQLite.
type ExecutionRepo struct {
	q  *dbstore.Queries
	db *sql.DB
}

// NewExecutionRepo creates a new ExecutionRepo.
func NewExecutionRepo(db *sql.DB) *ExecutionRepo {
	return &ExecutionRepo{q: dbstore.New(db), db: db}
}

// CreateExecution inserts a new pending execution for the job.
func (r *ExecutionRepo) CreateExecution(ctx context.Context, jobID, triggerType string) (*domain.Execution, error) {
	row, err := r.q.CreateExecution(ctx, dbstore.CreateExecutionParams{
		ID:          newID(),
		JobID:       jobID,
		TriggerType: triggerType,
	})
	if err != nil {
		return nil, mapDBError(err)
	}
	return executionFromDB(row, nil), nil
}

// GetExecutionByID returns an execution with its step results.
func (r *ExecutionRepo) GetExecutionByID(ctx context.Context, id string) (*domain.Execution, error) {
	row, err := r.q.GetExecutionByID(ctx, id)
	if err != nil {
		return nil, mapDBError(err)
	}

	stepRows, err := r.q.ListStepResultsByExecution(ctx, id)
	if err != nil {
		return nil, err
	}
	steps := make([]domain.StepResult, 0, len(stepRows))
	for _, sr := range stepRows {
		steps = append(steps, *stepResultFromDB(sr))
	}

	return executionFromDB(row, steps), nil
}

// ListExecutions returns a filtered, paginated list of executions.
// Step results are not hydrated on list reads.
func (r *ExecutionRepo) ListExecutions(ctx context.Context, filter domain.ExecutionFilter) ([]domain.Execution, int64, error) {
	jobID := ""
	if filter.JobID != nil {
		jobID = *filter.JobID
	}
	status := ""
	if filter.Status != nil {
		status = *filter.Status
	}

	total, err := r.q.CountExecutions(ctx, dbstore.CountExecutionsParams{
		JobID:  jobID,
		Status: status,
	})
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q.ListExecutions(ctx, dbstore.ListExecutionsParams{
		JobID:  jobID,
		Status: status,
		Limit:  int64(filter.Page.Limit()),
		Offset: int64(filter.Page.Offset()),
	})
	if err != nil {
		return nil, 0, err
	}

	executions := make([]domain.Execution, 0, len(rows))
	for _, row := range rows {
		executions = append(executions, *executionFromDB(row, nil))
	}
	return executions, total, nil
}

// MarkRunning transitions the execution from pending to running.
func (r *ExecutionRepo) MarkRunning(ctx context.Context, id string, startedAt time.Time) error {
	return mapDBError(r.q.MarkExecutionRunning(ctx, dbstore.MarkExecutionRunningParams{
		StartedAt: nullTime(startedAt),
		ID:        id,
	}))
}

// MarkFinished writes the terminal state of an execution.
func (r *ExecutionRepo) MarkFinished(ctx context.Context, id string, status string, errMsg *string, rowsProcessed *int64, duration float64) error {
	return mapDBError(r.q.MarkExecutionFinished(ctx, dbstore.MarkExecutionFinishedParams{
		Status:          status,
		CompletedAt:     nullTime(time.Now()),
		DurationSeconds: sql.NullFloat64{Float64: duration, Valid: true},
		ErrorMessage:    nullStringPtr(errMsg),
		RowsProcessed:   nullInt64Ptr(rowsProcessed),
		ID:              id,
	}))
}

// AppendStepResult records the outcome of one step.
func (r *ExecutionRepo) AppendStepResult(ctx context.Context, result *domain.StepResult) error {
	return mapDBError(r.q.CreateStepResult(ctx, dbstore.CreateStepResultParams{
		ID:           newID(),
		ExecutionID:  result.ExecutionID,
		StepNumber:   int64(result.StepNumber),
		StepName:     result.StepName,
		Status:       result.Status,
		RowsAffected: nullInt64Ptr(result.RowsAffected),
		ErrorMessage: nullStringPtr(result.ErrorMessage),
		StartedAt:    result.StartedAt.UTC().Format(timeLayout),
		CompletedAt:  result.CompletedAt.UTC().Format(timeLayout),
	}))
}

// DeleteFinishedBefore removes terminal executions older than the cutoff and
// returns how many were deleted. Step results go with them (ON DELETE CASCADE).
func (r *ExecutionRepo) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.q.DeleteExecutionsFinishedBefore(ctx, nullTime(cutoff))
}

// === Private mappers ===

func executionFromDB(row dbstore.Execution, steps []domain.StepResult) *domain.Execution {
	return &domain.Execution{
		ID:              row.ID,
		JobID:           row.JobID,
		Status:          row.Status,
		TriggerType:     row.TriggerType,
		StartedAt:       parseTimePtr("started_at", row.StartedAt),
		CompletedAt:     parseTimePtr("completed_at", row.CompletedAt),
		DurationSeconds: float64Ptr(row.DurationSeconds),
		ErrorMessage:    strPtr(row.ErrorMessage),
		RowsProcessed:   int64Ptr(row.RowsProcessed),
		StepResults:     steps,
		CreatedAt:       parseTime("created_at", row.CreatedAt),
	}
}

func stepResultFromDB(row dbstore.StepResult) *domain.StepResult {
	return &domain.StepResult{
		ID:           row.ID,
		ExecutionID:  row.ExecutionID,
		StepNumber:   int(row.StepNumber),
		StepName:     row.StepName,
		Status:       row.Status,
		RowsAffected: int64Ptr(row.RowsAffected),
		ErrorMessage: strPtr(row.ErrorMessage),
		StartedAt:    parseTime("started_at", row.StartedAt),
		CompletedAt:  parseTime("completed_at", row.CompletedAt),
	}
}
