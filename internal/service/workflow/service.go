// Package workflow implements the job engine: CRUD over job definitions,
// the execution orchestrator that runs workflow steps and function jobs,
// the merge engine, and the cron scheduler for recurring jobs.
package workflow

import (
	"context"
	"log/slog"
	"time"

	"sqlstudio/internal/domain"
)

// ScheduleReloader allows the service to notify the scheduler to reload.
type ScheduleReloader interface {
	Reload(ctx context.Context) error
}

// Service provides business logic for job management and execution.
type Service struct {
	jobs        domain.JobRepository
	executions  domain.ExecutionRepository
	audit       domain.AuditRepository
	backends    domain.BackendResolver
	functions   domain.FunctionRegistry
	broadcaster domain.Broadcaster
	logger      *slog.Logger
	reloader    ScheduleReloader
	dispatch    map[string]stepFunc
	sleep       func(time.Duration) // replaced in tests
}

// NewService creates a new workflow Service.
func NewService(
	jobs domain.JobRepository,
	executions domain.ExecutionRepository,
	audit domain.AuditRepository,
	backends domain.BackendResolver,
	functions domain.FunctionRegistry,
	broadcaster domain.Broadcaster,
	logger *slog.Logger,
) *Service {
	s := &Service{
		jobs:        jobs,
		executions:  executions,
		audit:       audit,
		backends:    backends,
		functions:   functions,
		broadcaster: broadcaster,
		logger:      logger,
		sleep:       time.Sleep,
	}
	s.dispatch = s.dispatchTable()
	return s
}

// SetScheduleReloader sets the schedule reloader (breaks circular dep).
func (s *Service) SetScheduleReloader(r ScheduleReloader) {
	s.reloader = r
}

// === Job CRUD ===

func (s *Service) CreateJob(ctx context.Context, principal string, req domain.CreateJobRequest) (*domain.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	job := &domain.Job{
		Name:               req.Name,
		Description:        req.Description,
		JobType:            req.JobType,
		WorkflowDefinition: req.WorkflowDefinition,
		TargetFunction:     req.TargetFunction,
		Parameters:         req.Parameters,
		MaxRetries:         req.MaxRetries,
		RetryDelaySeconds:  req.RetryDelaySeconds,
		ScheduleCron:       req.ScheduleCron,
		IsPaused:           req.IsPaused,
		CreatedBy:          principal,
	}

	result, err := s.jobs.CreateJob(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, principal, "job.create", &result.Name, nil, nil)

	if s.reloader != nil {
		_ = s.reloader.Reload(ctx)
	}

	return result, nil
}

func (s *Service) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	return s.jobs.GetJobByID(ctx, id)
}

func (s *Service) GetJobByName(ctx context.Context, name string) (*domain.Job, error) {
	return s.jobs.GetJobByName(ctx, name)
}

func (s *Service) ListJobs(ctx context.Context, page domain.PageRequest) ([]domain.Job, int64, error) {
	return s.jobs.ListJobs(ctx, page)
}

func (s *Service) UpdateJob(ctx context.Context, principal string, id string, req domain.UpdateJobRequest) (*domain.Job, error) {
	result, err := s.jobs.UpdateJob(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, principal, "job.update", &result.Name, nil, nil)

	if s.reloader != nil {
		_ = s.reloader.Reload(ctx)
	}

	return result, nil
}

func (s *Service) DeleteJob(ctx context.Context, principal string, id string) error {
	job, err := s.jobs.GetJobByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.jobs.DeleteJob(ctx, id); err != nil {
		return err
	}

	s.logAudit(ctx, principal, "job.delete", &job.Name, nil, nil)

	if s.reloader != nil {
		_ = s.reloader.Reload(ctx)
	}

	return nil
}

// === Execution reads ===

func (s *Service) GetExecution(ctx context.Context, id string) (*domain.Execution, error) {
	return s.executions.GetExecutionByID(ctx, id)
}

func (s *Service) ListExecutions(ctx context.Context, filter domain.ExecutionFilter) ([]domain.Execution, int64, error) {
	return s.executions.ListExecutions(ctx, filter)
}

// logAudit records an audit entry. Fire and forget: audit failures never
// affect the operation that produced them.
func (s *Service) logAudit(ctx context.Context, principal, action string, jobName, executionID *string, failure error) {
	entry := &domain.AuditEntry{
		PrincipalName: principal,
		Action:        action,
		JobName:       jobName,
		ExecutionID:   executionID,
		Status:        "success",
	}
	if failure != nil {
		entry.Status = "error"
		msg := failure.Error()
		entry.ErrorMessage = &msg
	}
	_ = s.audit.Insert(ctx, entry)
}
