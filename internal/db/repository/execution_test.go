package repository

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlstudio/internal/db"
	"sqlstudio/internal/domain"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(timeLayout, value)
	require.NoError(t, err)
	return parsed
}

func createTestJob(t *testing.T, repo *JobRepo) *domain.Job {
	t.Helper()
	job, err := repo.CreateJob(context.Background(), sampleWorkflowJob())
	require.NoError(t, err)
	return job
}

func TestExecutionLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	jobs := NewJobRepo(database)
	execs := NewExecutionRepo(database)
	ctx := context.Background()

	job := createTestJob(t, jobs)

	exec, err := execs.CreateExecution(ctx, job.ID, domain.TriggerTypeManual)
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStatusPending, exec.Status)
	assert.Equal(t, domain.TriggerTypeManual, exec.TriggerType)
	assert.Nil(t, exec.StartedAt)

	started := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, execs.MarkRunning(ctx, exec.ID, started))

	rows := int64(10)
	require.NoError(t, execs.AppendStepResult(ctx, &domain.StepResult{
		ExecutionID:  exec.ID,
		StepNumber:   1,
		StepName:     "load users",
		Status:       domain.StepStatusSuccess,
		RowsAffected: &rows,
		StartedAt:    started,
		CompletedAt:  started.Add(time.Second),
	}))

	errMsg := "connection refused"
	require.NoError(t, execs.AppendStepResult(ctx, &domain.StepResult{
		ExecutionID:  exec.ID,
		StepNumber:   2,
		StepName:     "load orders",
		Status:       domain.StepStatusFailed,
		ErrorMessage: &errMsg,
		StartedAt:    started.Add(time.Second),
		CompletedAt:  started.Add(2 * time.Second),
	}))

	require.NoError(t, execs.MarkFinished(ctx, exec.ID, domain.ExecutionStatusFailed, &errMsg, &rows, 2.0))

	got, err := execs.GetExecutionByID(ctx, exec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, errMsg, *got.ErrorMessage)
	require.NotNil(t, got.DurationSeconds)
	assert.Equal(t, 2.0, *got.DurationSeconds)

	require.Len(t, got.StepResults, 2)
	assert.Equal(t, domain.StepStatusSuccess, got.StepResults[0].Status)
	require.NotNil(t, got.StepResults[0].RowsAffected)
	assert.Equal(t, int64(10), *got.StepResults[0].RowsAffected)
	assert.Equal(t, domain.StepStatusFailed, got.StepResults[1].Status)
	require.NotNil(t, got.StepResults[1].ErrorMessage)
	assert.Equal(t, errMsg, *got.StepResults[1].ErrorMessage)
}

func TestListExecutionsFilter(t *testing.T) {
	database := db.NewTestDB(t)
	jobs := NewJobRepo(database)
	execs := NewExecutionRepo(database)
	ctx := context.Background()

	job := createTestJob(t, jobs)

	e1, err := execs.CreateExecution(ctx, job.ID, domain.TriggerTypeManual)
	require.NoError(t, err)
	_, err = execs.CreateExecution(ctx, job.ID, domain.TriggerTypeScheduled)
	require.NoError(t, err)

	require.NoError(t, execs.MarkRunning(ctx, e1.ID, time.Now()))
	require.NoError(t, execs.MarkFinished(ctx, e1.ID, domain.ExecutionStatusCompleted, nil, nil, 0.5))

	all, total, err := execs.ListExecutions(ctx, domain.ExecutionFilter{JobID: &job.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	completed := domain.ExecutionStatusCompleted
	done, total, err := execs.ListExecutions(ctx, domain.ExecutionFilter{JobID: &job.ID, Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, done, 1)
	assert.Equal(t, e1.ID, done[0].ID)
}

func TestDeleteFinishedBefore(t *testing.T) {
	database := db.NewTestDB(t)
	jobs := NewJobRepo(database)
	execs := NewExecutionRepo(database)
	ctx := context.Background()

	job := createTestJob(t, jobs)

	old, err := execs.CreateExecution(ctx, job.ID, domain.TriggerTypeManual)
	require.NoError(t, err)
	require.NoError(t, execs.MarkRunning(ctx, old.ID, time.Now().Add(-48*time.Hour)))
	// Backdate the terminal timestamp directly; MarkFinished always stamps now.
	require.NoError(t, execs.MarkFinished(ctx, old.ID, domain.ExecutionStatusCompleted, nil, nil, 1))
	_, err = database.Exec(
		"UPDATE executions SET completed_at = ? WHERE id = ?",
		time.Now().Add(-48*time.Hour).UTC().Format(timeLayout), old.ID,
	)
	require.NoError(t, err)

	running, err := execs.CreateExecution(ctx, job.ID, domain.TriggerTypeManual)
	require.NoError(t, err)

	deleted, err := execs.DeleteFinishedBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = execs.GetExecutionByID(ctx, old.ID)
	assert.IsType(t, &domain.NotFoundError{}, err)

	_, err = execs.GetExecutionByID(ctx, running.ID)
	assert.NoError(t, err)
}
