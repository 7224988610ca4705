package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"sqlstudio/internal/db/dbstore"
	"sqlstudio/internal/domain"
)

// Compile-time check.
var _ domain.JobRepository = (*JobRepo)(nil)

// JobRepo implements JobRepository using SQLite.
type JobRepo struct {
	q  *dbstore.Queries
	db *sql.DB
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{q: dbstore.New(db), db: db}
}

// CreateJob inserts a new job definition.
func (r *JobRepo) CreateJob(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	defJSON, err := marshalDefinition(job.WorkflowDefinition)
	if err != nil {
		return nil, err
	}
	paramsJSON, err := marshalParameters(job.Parameters)
	if err != nil {
		return nil, err
	}

	row, err := r.q.CreateJob(ctx, dbstore.CreateJobParams{
		ID:                 newID(),
		Name:               job.Name,
		Description:        job.Description,
		JobType:            job.JobType,
		WorkflowDefinition: defJSON,
		TargetFunction:     job.TargetFunction,
		Parameters:         paramsJSON,
		MaxRetries:         int64(job.MaxRetries),
		RetryDelaySeconds:  int64(job.RetryDelaySeconds),
		ScheduleCron:       nullStringPtr(job.ScheduleCron),
		IsPaused:           boolToInt(job.IsPaused),
		CreatedBy:          job.CreatedBy,
	})
	if err != nil {
		return nil, mapDBError(err)
	}
	return jobFromDB(row), nil
}

// GetJobByID returns a job by its ID.
func (r *JobRepo) GetJobByID(ctx context.Context, id string) (*domain.Job, error) {
	row, err := r.q.GetJobByID(ctx, id)
	if err != nil {
		return nil, mapDBError(err)
	}
	return jobFromDB(row), nil
}

// GetJobByName returns a job by its unique name.
func (r *JobRepo) GetJobByName(ctx context.Context, name string) (*domain.Job, error) {
	row, err := r.q.GetJobByName(ctx, name)
	if err != nil {
		return nil, mapDBError(err)
	}
	return jobFromDB(row), nil
}

// ListJobs returns a paginated list of jobs.
func (r *JobRepo) ListJobs(ctx context.Context, page domain.PageRequest) ([]domain.Job, int64, error) {
	total, err := r.q.CountJobs(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q.ListJobs(ctx, dbstore.ListJobsParams{
		Limit:  int64(page.Limit()),
		Offset: int64(page.Offset()),
	})
	if err != nil {
		return nil, 0, err
	}

	jobs := make([]domain.Job, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, *jobFromDB(row))
	}
	return jobs, total, nil
}

// UpdateJob applies partial updates to a job.
func (r *JobRepo) UpdateJob(ctx context.Context, id string, req domain.UpdateJobRequest) (*domain.Job, error) {
	current, err := r.GetJobByID(ctx, id)
	if err != nil {
		return nil, err
	}

	desc := current.Description
	if req.Description != nil {
		desc = *req.Description
	}
	def := current.WorkflowDefinition
	if req.WorkflowDefinition != nil {
		def = req.WorkflowDefinition
	}
	targetFn := current.TargetFunction
	if req.TargetFunction != nil {
		targetFn = *req.TargetFunction
	}
	params := current.Parameters
	if req.Parameters != nil {
		params = req.Parameters
	}
	maxRetries := current.MaxRetries
	if req.MaxRetries != nil {
		maxRetries = *req.MaxRetries
	}
	retryDelay := current.RetryDelaySeconds
	if req.RetryDelaySeconds != nil {
		retryDelay = *req.RetryDelaySeconds
	}
	paused := current.IsPaused
	if req.IsPaused != nil {
		paused = *req.IsPaused
	}
	sched := nullStringPtr(current.ScheduleCron)
	if req.ScheduleCron != nil {
		sched = sql.NullString{String: *req.ScheduleCron, Valid: *req.ScheduleCron != ""}
	}

	defJSON, err := marshalDefinition(def)
	if err != nil {
		return nil, err
	}
	paramsJSON, err := marshalParameters(params)
	if err != nil {
		return nil, err
	}

	err = r.q.UpdateJob(ctx, dbstore.UpdateJobParams{
		Description:        desc,
		WorkflowDefinition: defJSON,
		TargetFunction:     targetFn,
		Parameters:         paramsJSON,
		MaxRetries:         int64(maxRetries),
		RetryDelaySeconds:  int64(retryDelay),
		ScheduleCron:       sched,
		IsPaused:           boolToInt(paused),
		ID:                 id,
	})
	if err != nil {
		return nil, mapDBError(err)
	}
	return r.GetJobByID(ctx, id)
}

// DeleteJob removes a job by ID.
func (r *JobRepo) DeleteJob(ctx context.Context, id string) error {
	return mapDBError(r.q.DeleteJob(ctx, id))
}

// ListScheduledJobs returns all jobs with a cron schedule that are not paused.
func (r *JobRepo) ListScheduledJobs(ctx context.Context) ([]domain.Job, error) {
	rows, err := r.q.ListScheduledJobs(ctx)
	if err != nil {
		return nil, err
	}

	jobs := make([]domain.Job, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, *jobFromDB(row))
	}
	return jobs, nil
}

// UpdateLastRunTime records the start time of the job's most recent execution.
func (r *JobRepo) UpdateLastRunTime(ctx context.Context, id string, t time.Time) error {
	return mapDBError(r.q.UpdateJobLastRunTime(ctx, dbstore.UpdateJobLastRunTimeParams{
		LastRunTime: nullTime(t),
		ID:          id,
	}))
}

// === Private mappers ===

func marshalDefinition(def *domain.WorkflowDefinition) (sql.NullString, error) {
	if def == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(def)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal workflow_definition: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func marshalParameters(params map[string]interface{}) (string, error) {
	if params == nil {
		return "{}", nil
	}
	b, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("marshal parameters: %w", err)
	}
	return string(b), nil
}

func jobFromDB(row dbstore.Job) *domain.Job {
	var def *domain.WorkflowDefinition
	if row.WorkflowDefinition.Valid && row.WorkflowDefinition.String != "" {
		def = &domain.WorkflowDefinition{}
		if err := json.Unmarshal([]byte(row.WorkflowDefinition.String), def); err != nil {
			slog.Default().Warn("failed to parse stored workflow_definition", "job_id", row.ID, "error", err)
			def = nil
		}
	}

	var params map[string]interface{}
	_ = json.Unmarshal([]byte(row.Parameters), &params)
	if params == nil {
		params = map[string]interface{}{}
	}

	return &domain.Job{
		ID:                 row.ID,
		Name:               row.Name,
		Description:        row.Description,
		JobType:            row.JobType,
		WorkflowDefinition: def,
		TargetFunction:     row.TargetFunction,
		Parameters:         params,
		MaxRetries:         int(row.MaxRetries),
		RetryDelaySeconds:  int(row.RetryDelaySeconds),
		ScheduleCron:       strPtr(row.ScheduleCron),
		IsPaused:           row.IsPaused != 0,
		CreatedBy:          row.CreatedBy,
		LastRunTime:        parseTimePtr("last_run_time", row.LastRunTime),
		CreatedAt:          parseTime("created_at", row.CreatedAt),
		UpdatedAt:          parseTime("updated_at", row.UpdatedAt),
	}
}
