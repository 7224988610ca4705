package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sqlstudio/internal/domain"
)

// ExecuteJob runs a job to completion and returns its terminal execution
// record. The run is synchronous: steps execute sequentially in ascending
// step-number order on the caller's goroutine. Fatal errors (missing job,
// invalid configuration, or a runtime failure under stop mode) are returned
// alongside the failed execution record when one was created.
func (s *Service) ExecuteJob(ctx context.Context, principal, jobID, triggerType string) (*domain.Execution, error) {
	if triggerType == "" {
		triggerType = domain.TriggerTypeManual
	}

	job, err := s.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, domain.ErrNotFound("Job %s not found", jobID)
		}
		return nil, err
	}

	// Validation failures abort before any step or backend is contacted.
	if err := ValidateJob(job); err != nil {
		s.logAudit(ctx, principal, "job.execute", &job.Name, nil, err)
		return nil, err
	}

	exec, err := s.executions.CreateExecution(ctx, job.ID, triggerType)
	if err != nil {
		return nil, fmt.Errorf("create execution: %w", err)
	}

	logger := s.logger.With("job_id", job.ID, "job_name", job.Name, "execution_id", exec.ID)
	startedAt := time.Now().UTC()
	if err := s.executions.MarkRunning(ctx, exec.ID, startedAt); err != nil {
		return nil, fmt.Errorf("mark execution running: %w", err)
	}

	s.broadcaster.Broadcast(job.ID, domain.Event{
		Kind:        domain.EventExecutionStarted,
		JobID:       job.ID,
		ExecutionID: exec.ID,
		Timestamp:   time.Now().UTC(),
	})
	logger.Info("execution started", "trigger_type", triggerType)

	var runErr error
	var rowsProcessed int64
	if job.JobType == domain.JobTypeFunction {
		runErr = s.runFunction(ctx, job, exec.ID, logger)
	} else {
		rowsProcessed, runErr = s.runWorkflow(ctx, job, exec.ID, logger)
	}

	duration := time.Since(startedAt).Seconds()
	if runErr != nil {
		errMsg := runErr.Error()
		if err := s.executions.MarkFinished(ctx, exec.ID, domain.ExecutionStatusFailed, &errMsg, &rowsProcessed, duration); err != nil {
			logger.Error("failed to persist failed execution", "error", err)
		}
		s.broadcaster.Broadcast(job.ID, domain.Event{
			Kind:        domain.EventExecutionFailed,
			JobID:       job.ID,
			ExecutionID: exec.ID,
			Error:       errMsg,
			Timestamp:   time.Now().UTC(),
		})
		s.logAudit(ctx, principal, "job.execute", &job.Name, &exec.ID, runErr)
		logger.Warn("execution failed", "error", runErr, "duration_s", duration)

		if final, err := s.executions.GetExecutionByID(ctx, exec.ID); err == nil {
			return final, runErr
		}
		return nil, runErr
	}

	if err := s.executions.MarkFinished(ctx, exec.ID, domain.ExecutionStatusCompleted, nil, &rowsProcessed, duration); err != nil {
		return nil, fmt.Errorf("mark execution finished: %w", err)
	}
	if err := s.jobs.UpdateLastRunTime(ctx, job.ID, time.Now().UTC()); err != nil {
		logger.Warn("failed to update last run time", "error", err)
	}

	s.broadcaster.Broadcast(job.ID, domain.Event{
		Kind:        domain.EventExecutionCompleted,
		JobID:       job.ID,
		ExecutionID: exec.ID,
		RowCount:    &rowsProcessed,
		Timestamp:   time.Now().UTC(),
	})
	s.logAudit(ctx, principal, "job.execute", &job.Name, &exec.ID, nil)
	logger.Info("execution completed", "rows_processed", rowsProcessed, "duration_s", duration)

	return s.executions.GetExecutionByID(ctx, exec.ID)
}

// runFunction invokes the registered target function once and records a
// single synthetic step result.
func (s *Service) runFunction(ctx context.Context, job *domain.Job, executionID string, logger *slog.Logger) error {
	started := time.Now().UTC()
	_, invokeErr := s.functions.Invoke(ctx, job.TargetFunction, job.Parameters)

	result := &domain.StepResult{
		ExecutionID: executionID,
		StepNumber:  1,
		StepName:    job.TargetFunction,
		Status:      domain.StepStatusSuccess,
		StartedAt:   started,
		CompletedAt: time.Now().UTC(),
	}
	if invokeErr != nil {
		result.Status = domain.StepStatusFailed
		msg := invokeErr.Error()
		result.ErrorMessage = &msg
	}
	if err := s.executions.AppendStepResult(ctx, result); err != nil {
		logger.Error("failed to record step result", "error", err)
	}
	return invokeErr
}

// runWorkflow iterates the definition's steps in ascending step-number order,
// publishing each saved result into a store scoped to this execution. In
// continue mode a runtime step failure is recorded and the run proceeds; in
// stop mode (the default) it aborts the loop and the remaining steps are
// recorded as skipped. Configuration errors always abort.
func (s *Service) runWorkflow(ctx context.Context, job *domain.Job, executionID string, logger *slog.Logger) (int64, error) {
	store := NewTableStore()
	steps := job.WorkflowDefinition.StepsInOrder()
	continueOnError := job.WorkflowDefinition.ErrorHandling == domain.ErrorHandlingContinue

	var totalRows int64
	for i, step := range steps {
		s.broadcaster.Broadcast(job.ID, domain.Event{
			Kind:        domain.EventStepStarted,
			JobID:       job.ID,
			ExecutionID: executionID,
			StepNumber:  intPtr(step.StepNumber),
			StepName:    step.StepName,
			Timestamp:   time.Now().UTC(),
		})

		started := time.Now().UTC()
		table, stepErr := s.runStepWithRetry(ctx, job, step, store, logger)
		if stepErr == nil {
			stepErr = s.publishResult(step, table, store)
		}

		if stepErr != nil {
			msg := stepErr.Error()
			s.appendStepResult(ctx, logger, &domain.StepResult{
				ExecutionID:  executionID,
				StepNumber:   step.StepNumber,
				StepName:     step.StepName,
				Status:       domain.StepStatusFailed,
				ErrorMessage: &msg,
				StartedAt:    started,
				CompletedAt:  time.Now().UTC(),
			})
			s.broadcaster.Broadcast(job.ID, domain.Event{
				Kind:        domain.EventStepFailed,
				JobID:       job.ID,
				ExecutionID: executionID,
				StepNumber:  intPtr(step.StepNumber),
				StepName:    step.StepName,
				Error:       msg,
				Timestamp:   time.Now().UTC(),
			})
			logger.Warn("step failed", "step_number", step.StepNumber, "step_name", step.StepName, "error", stepErr)

			// Configuration errors mean the workflow cannot run at all;
			// they abort regardless of the error-handling mode.
			var invalid *domain.ValidationError
			if errors.As(stepErr, &invalid) || !continueOnError {
				s.skipRemaining(ctx, executionID, steps[i+1:], logger)
				if errors.As(stepErr, &invalid) {
					return totalRows, stepErr
				}
				return totalRows, domain.ErrExecution(step.StepNumber, "%s", msg)
			}
			continue
		}

		rows := int64(table.RowCount())
		totalRows += rows
		s.appendStepResult(ctx, logger, &domain.StepResult{
			ExecutionID:  executionID,
			StepNumber:   step.StepNumber,
			StepName:     step.StepName,
			Status:       domain.StepStatusSuccess,
			RowsAffected: &rows,
			StartedAt:    started,
			CompletedAt:  time.Now().UTC(),
		})
		s.broadcaster.Broadcast(job.ID, domain.Event{
			Kind:        domain.EventStepCompleted,
			JobID:       job.ID,
			ExecutionID: executionID,
			StepNumber:  intPtr(step.StepNumber),
			StepName:    step.StepName,
			RowCount:    &rows,
			Timestamp:   time.Now().UTC(),
		})
	}

	return totalRows, nil
}

// runStepWithRetry retries runtime failures up to the job's retry budget.
// Configuration errors are never retried; the default budget of zero means
// a single attempt.
func (s *Service) runStepWithRetry(ctx context.Context, job *domain.Job, step domain.Step, store *TableStore, logger *slog.Logger) (*domain.Table, error) {
	var lastErr error
	maxAttempts := job.MaxRetries + 1

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			s.sleep(time.Duration(job.RetryDelaySeconds) * time.Second)
			logger.Info("retrying step", "step_number", step.StepNumber, "attempt", attempt+1)
		}

		table, err := s.runStep(ctx, step, store)
		if err == nil {
			return table, nil
		}
		lastErr = err

		var invalid *domain.ValidationError
		if errors.As(err, &invalid) {
			break
		}
	}
	return nil, lastErr
}

// publishResult stores a step's table under its output name. Query steps
// publish only when save_as is set; merge results are always published so
// later steps can consume them.
func (s *Service) publishResult(step domain.Step, table *domain.Table, store *TableStore) error {
	if step.IsQuery() && step.SaveAs == "" {
		return nil
	}
	return store.Save(outputName(step), table)
}

// skipRemaining records a skipped step result for each step after an abort.
func (s *Service) skipRemaining(ctx context.Context, executionID string, steps []domain.Step, logger *slog.Logger) {
	now := time.Now().UTC()
	for _, step := range steps {
		s.appendStepResult(ctx, logger, &domain.StepResult{
			ExecutionID: executionID,
			StepNumber:  step.StepNumber,
			StepName:    step.StepName,
			Status:      domain.StepStatusSkipped,
			StartedAt:   now,
			CompletedAt: now,
		})
	}
}

func (s *Service) appendStepResult(ctx context.Context, logger *slog.Logger, result *domain.StepResult) {
	if err := s.executions.AppendStepResult(ctx, result); err != nil {
		logger.Error("failed to record step result",
			"step_number", result.StepNumber, "error", err)
	}
}

func intPtr(n int) *int { return &n }
