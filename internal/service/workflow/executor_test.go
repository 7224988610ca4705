package workflow

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlstudio/internal/domain"
	"sqlstudio/internal/testutil"
)

type fixture struct {
	jobs      *testutil.MockJobRepo
	execs     *testutil.MockExecutionRepo
	audit     *testutil.MockAuditRepo
	sqlserver *testutil.MockQueryExecutor
	redshift  *testutil.MockQueryExecutor
	functions *testutil.MockFunctionRegistry
	events    *testutil.MockBroadcaster
	svc       *Service
	slept     []time.Duration
}

func newFixture(t *testing.T, job *domain.Job) *fixture {
	t.Helper()
	f := &fixture{
		jobs:      &testutil.MockJobRepo{},
		execs:     &testutil.MockExecutionRepo{},
		audit:     &testutil.MockAuditRepo{},
		sqlserver: &testutil.MockQueryExecutor{},
		redshift:  &testutil.MockQueryExecutor{},
		functions: &testutil.MockFunctionRegistry{},
		events:    &testutil.MockBroadcaster{},
	}
	f.jobs.GetJobByIDFn = func(_ context.Context, id string) (*domain.Job, error) {
		if job != nil && id == job.ID {
			return job, nil
		}
		return nil, domain.ErrNotFound("job %s not found", id)
	}

	resolver := &testutil.MockBackendResolver{Backends: map[string]domain.QueryExecutor{
		domain.StepTypeSQLServerQuery: f.sqlserver,
		domain.StepTypeRedshiftQuery:  f.redshift,
	}}
	f.svc = NewService(f.jobs, f.execs, f.audit, resolver, f.functions, f.events, slog.New(slog.DiscardHandler))
	f.svc.sleep = func(d time.Duration) { f.slept = append(f.slept, d) }
	return f
}

func workflowJob(errorHandling string, steps ...domain.Step) *domain.Job {
	return &domain.Job{
		ID:      "job-1",
		Name:    "reporting",
		JobType: domain.JobTypeWorkflow,
		WorkflowDefinition: &domain.WorkflowDefinition{
			Steps:         steps,
			ErrorHandling: errorHandling,
		},
	}
}

func queryStep(number int, stepType, query, saveAs string) domain.Step {
	return domain.Step{
		StepNumber: number,
		StepName:   "step",
		StepType:   stepType,
		Query:      query,
		SaveAs:     saveAs,
	}
}

func TestExecuteJobNotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.ExecuteJob(context.Background(), "tester", "missing-id", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Empty(t, f.sqlserver.Queries)
}

func TestExecuteJobInvalidConfiguration(t *testing.T) {
	job := &domain.Job{ID: "job-1", Name: "broken", JobType: domain.JobTypeWorkflow}
	f := newFixture(t, job)

	_, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid job configuration")

	// No execution record, no backend call, no events.
	assert.Empty(t, f.execs.Executions)
	assert.Empty(t, f.sqlserver.Queries)
	assert.Empty(t, f.events.Events)
}

func TestExecuteJobTwoQuerySteps(t *testing.T) {
	job := workflowJob(domain.ErrorHandlingStop,
		queryStep(1, domain.StepTypeSQLServerQuery, "SELECT * FROM users", "users"),
		queryStep(2, domain.StepTypeRedshiftQuery, "SELECT * FROM orders", "orders"),
	)
	f := newFixture(t, job)
	f.sqlserver.ExecuteQueryFn = func(context.Context, string) (*domain.Table, error) {
		return usersTable(), nil
	}
	f.redshift.ExecuteQueryFn = func(context.Context, string) (*domain.Table, error) {
		return ordersTable(), nil
	}

	exec, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"SELECT * FROM users"}, f.sqlserver.Queries)
	assert.Equal(t, []string{"SELECT * FROM orders"}, f.redshift.Queries)

	assert.Equal(t, domain.ExecutionStatusCompleted, exec.Status)
	assert.Equal(t, domain.TriggerTypeManual, exec.TriggerType)
	require.NotNil(t, exec.RowsProcessed)
	assert.Equal(t, int64(7), *exec.RowsProcessed)

	require.Len(t, exec.StepResults, 2)
	assert.Equal(t, 1, exec.StepResults[0].StepNumber)
	assert.Equal(t, domain.StepStatusSuccess, exec.StepResults[0].Status)
	assert.Equal(t, domain.StepStatusSuccess, exec.StepResults[1].Status)

	assert.Equal(t, []domain.EventKind{
		domain.EventExecutionStarted,
		domain.EventStepStarted,
		domain.EventStepCompleted,
		domain.EventStepStarted,
		domain.EventStepCompleted,
		domain.EventExecutionCompleted,
	}, f.events.Kinds())

	assert.Equal(t, []string{"job-1"}, f.jobs.LastRunUpdates)
}

func TestExecuteJobStopModeAbortsOnFailure(t *testing.T) {
	job := workflowJob(domain.ErrorHandlingStop,
		queryStep(1, domain.StepTypeSQLServerQuery, "SELECT 1", ""),
		queryStep(2, domain.StepTypeRedshiftQuery, "SELECT 2", ""),
	)
	f := newFixture(t, job)
	f.sqlserver.ExecuteQueryFn = func(context.Context, string) (*domain.Table, error) {
		return nil, errors.New("connection reset")
	}

	exec, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.Error(t, err)
	var runtimeErr *domain.ExecutionError
	assert.ErrorAs(t, err, &runtimeErr)

	assert.Len(t, f.sqlserver.Queries, 1)
	assert.Empty(t, f.redshift.Queries, "second step must not run after a stop-mode failure")

	require.NotNil(t, exec)
	assert.Equal(t, domain.ExecutionStatusFailed, exec.Status)
	require.NotNil(t, exec.ErrorMessage)
	assert.Contains(t, *exec.ErrorMessage, "connection reset")

	require.Len(t, exec.StepResults, 2)
	assert.Equal(t, domain.StepStatusFailed, exec.StepResults[0].Status)
	assert.Equal(t, domain.StepStatusSkipped, exec.StepResults[1].Status)

	assert.Empty(t, f.jobs.LastRunUpdates)
	assert.Equal(t, domain.EventExecutionFailed, f.events.Events[len(f.events.Events)-1].Kind)
}

func TestExecuteJobContinueModeRunsAllSteps(t *testing.T) {
	job := workflowJob(domain.ErrorHandlingContinue,
		queryStep(1, domain.StepTypeSQLServerQuery, "SELECT 1", ""),
		queryStep(2, domain.StepTypeRedshiftQuery, "SELECT 2", ""),
	)
	f := newFixture(t, job)
	f.sqlserver.ExecuteQueryFn = func(context.Context, string) (*domain.Table, error) {
		return nil, errors.New("connection reset")
	}
	f.redshift.ExecuteQueryFn = func(context.Context, string) (*domain.Table, error) {
		return ordersTable(), nil
	}

	exec, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.NoError(t, err)

	assert.Len(t, f.sqlserver.Queries, 1)
	assert.Len(t, f.redshift.Queries, 1)

	// Partial failure is visible only through the per-step results.
	assert.Equal(t, domain.ExecutionStatusCompleted, exec.Status)
	require.Len(t, exec.StepResults, 2)
	assert.Equal(t, domain.StepStatusFailed, exec.StepResults[0].Status)
	assert.Equal(t, domain.StepStatusSuccess, exec.StepResults[1].Status)
}

func TestExecuteJobUnionRequiresTwoSources(t *testing.T) {
	job := workflowJob("",
		domain.Step{
			StepNumber:   1,
			StepName:     "merge",
			StepType:     domain.StepTypeMerge,
			MergeType:    domain.MergeTypeUnion,
			SourceTables: []string{"only_one"},
		},
	)
	f := newFixture(t, job)

	_, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 source tables")
	assert.Empty(t, f.sqlserver.Queries)
	assert.Empty(t, f.redshift.Queries)
}

func TestExecuteJobJoinWithoutKeysFailsAfterQueries(t *testing.T) {
	job := workflowJob("",
		queryStep(1, domain.StepTypeSQLServerQuery, "SELECT 1", "data_a"),
		queryStep(2, domain.StepTypeSQLServerQuery, "SELECT 2", "data_b"),
		domain.Step{
			StepNumber:   3,
			StepName:     "join",
			StepType:     domain.StepTypeMerge,
			MergeType:    domain.MergeTypeInnerJoin,
			SourceTables: []string{"data_a", "data_b"},
		},
	)
	f := newFixture(t, job)
	f.sqlserver.ExecuteQueryFn = func(context.Context, string) (*domain.Table, error) {
		return usersTable(), nil
	}

	_, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "require join keys")
	assert.Len(t, f.sqlserver.Queries, 2, "both query steps run before the malformed merge")
}

func TestExecuteJobEmptyQuery(t *testing.T) {
	// Configuration errors abort even in continue mode.
	job := workflowJob(domain.ErrorHandlingContinue,
		queryStep(1, domain.StepTypeSQLServerQuery, "", ""),
		queryStep(2, domain.StepTypeRedshiftQuery, "SELECT 2", ""),
	)
	f := newFixture(t, job)

	_, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No query provided")
	assert.Empty(t, f.sqlserver.Queries)
	assert.Empty(t, f.redshift.Queries)
}

func TestExecuteJobMergePipeline(t *testing.T) {
	job := workflowJob("",
		queryStep(1, domain.StepTypeSQLServerQuery, "SELECT * FROM users", "users"),
		queryStep(2, domain.StepTypeRedshiftQuery, "SELECT * FROM orders", "orders"),
		domain.Step{
			StepNumber:   3,
			StepName:     "join users to orders",
			StepType:     domain.StepTypeMerge,
			MergeType:    domain.MergeTypeInnerJoin,
			SourceTables: []string{"users", "orders"},
			JoinKeys:     []domain.JoinKey{{Left: "id", Right: "user_id"}},
		},
	)
	f := newFixture(t, job)
	f.sqlserver.ExecuteQueryFn = func(context.Context, string) (*domain.Table, error) {
		return usersTable(), nil
	}
	f.redshift.ExecuteQueryFn = func(context.Context, string) (*domain.Table, error) {
		return ordersTable(), nil
	}

	exec, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStatusCompleted, exec.Status)

	require.Len(t, exec.StepResults, 3)
	require.NotNil(t, exec.StepResults[2].RowsAffected)
	assert.Equal(t, int64(3), *exec.StepResults[2].RowsAffected)
}

func TestExecuteJobFreshStorePerRun(t *testing.T) {
	// The merge references a table only ever produced by a different run;
	// it must fail every time because each execution starts empty.
	saver := workflowJob("", queryStep(1, domain.StepTypeSQLServerQuery, "SELECT * FROM users", "users"))
	merger := workflowJob("",
		domain.Step{
			StepNumber:   1,
			StepType:     domain.StepTypeMerge,
			MergeType:    domain.MergeTypeUnion,
			SourceTables: []string{"users", "users"},
		},
	)
	merger.ID = "job-2"

	f := newFixture(t, saver)
	f.jobs.GetJobByIDFn = func(_ context.Context, id string) (*domain.Job, error) {
		switch id {
		case saver.ID:
			return saver, nil
		case merger.ID:
			return merger, nil
		}
		return nil, domain.ErrNotFound("job %s not found", id)
	}
	f.sqlserver.ExecuteQueryFn = func(context.Context, string) (*domain.Table, error) {
		return usersTable(), nil
	}

	first, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.NoError(t, err)

	_, err = f.svc.ExecuteJob(context.Background(), "tester", "job-2", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Referenced table 'users' not found")

	second, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID, "every invocation creates a new execution")
}

func TestExecuteJobFunction(t *testing.T) {
	job := &domain.Job{
		ID:             "job-1",
		Name:           "cleanup",
		JobType:        domain.JobTypeFunction,
		TargetFunction: "cleanup_executions",
		Parameters:     map[string]interface{}{"retention_days": 7},
	}
	f := newFixture(t, job)
	f.functions.InvokeFn = func(_ context.Context, name string, params map[string]interface{}) (interface{}, error) {
		assert.Equal(t, "cleanup_executions", name)
		assert.Equal(t, 7, params["retention_days"])
		return map[string]interface{}{"deleted_executions": int64(3)}, nil
	}

	exec, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", domain.TriggerTypeScheduled)
	require.NoError(t, err)

	assert.Equal(t, []string{"cleanup_executions"}, f.functions.Invoked)
	assert.Equal(t, domain.ExecutionStatusCompleted, exec.Status)
	assert.Equal(t, domain.TriggerTypeScheduled, exec.TriggerType)

	require.Len(t, exec.StepResults, 1)
	assert.Equal(t, "cleanup_executions", exec.StepResults[0].StepName)
	assert.Equal(t, domain.StepStatusSuccess, exec.StepResults[0].Status)
}

func TestExecuteJobFunctionFailure(t *testing.T) {
	job := &domain.Job{
		ID:             "job-1",
		Name:           "cleanup",
		JobType:        domain.JobTypeFunction,
		TargetFunction: "cleanup_executions",
	}
	f := newFixture(t, job)
	f.functions.InvokeFn = func(context.Context, string, map[string]interface{}) (interface{}, error) {
		return nil, errors.New("boom")
	}

	exec, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.Error(t, err)

	require.NotNil(t, exec)
	assert.Equal(t, domain.ExecutionStatusFailed, exec.Status)
	require.Len(t, exec.StepResults, 1)
	assert.Equal(t, domain.StepStatusFailed, exec.StepResults[0].Status)
}

func TestExecuteJobRetriesRuntimeFailures(t *testing.T) {
	job := workflowJob("", queryStep(1, domain.StepTypeSQLServerQuery, "SELECT 1", ""))
	job.MaxRetries = 2
	job.RetryDelaySeconds = 3

	f := newFixture(t, job)
	calls := 0
	f.sqlserver.ExecuteQueryFn = func(context.Context, string) (*domain.Table, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("deadlock victim")
		}
		return usersTable(), nil
	}

	exec, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStatusCompleted, exec.Status)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second}, f.slept)
}

func TestExecuteJobNeverRetriesConfigurationErrors(t *testing.T) {
	job := workflowJob("", queryStep(1, domain.StepTypeSQLServerQuery, "", ""))
	job.MaxRetries = 5

	f := newFixture(t, job)

	_, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No query provided")
	assert.Empty(t, f.sqlserver.Queries)
	assert.Empty(t, f.slept)
}

func TestExecuteJobNoBackendConfigured(t *testing.T) {
	job := workflowJob("", queryStep(1, domain.StepTypeDuckDBQuery, "SELECT 1", ""))
	f := newFixture(t, job)

	_, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no backend configured")
}

func TestExecuteJobStepsRunInStepNumberOrder(t *testing.T) {
	// Steps listed out of order; execution must follow step_number.
	job := workflowJob("",
		queryStep(20, domain.StepTypeSQLServerQuery, "SELECT 'second'", ""),
		queryStep(3, domain.StepTypeSQLServerQuery, "SELECT 'first'", ""),
	)
	f := newFixture(t, job)
	f.sqlserver.ExecuteQueryFn = func(context.Context, string) (*domain.Table, error) {
		return &domain.Table{}, nil
	}

	exec, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"SELECT 'first'", "SELECT 'second'"}, f.sqlserver.Queries)
	require.Len(t, exec.StepResults, 2)
	assert.Equal(t, 3, exec.StepResults[0].StepNumber)
	assert.Equal(t, 20, exec.StepResults[1].StepNumber)
}

func TestExecuteJobDuplicateSaveAs(t *testing.T) {
	job := workflowJob("",
		queryStep(1, domain.StepTypeSQLServerQuery, "SELECT 1", "data"),
		queryStep(2, domain.StepTypeSQLServerQuery, "SELECT 2", "data"),
	)
	f := newFixture(t, job)
	f.sqlserver.ExecuteQueryFn = func(context.Context, string) (*domain.Table, error) {
		return usersTable(), nil
	}

	_, err := f.svc.ExecuteJob(context.Background(), "tester", "job-1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already used")
}

func TestExecuteJobAuditsOutcome(t *testing.T) {
	job := workflowJob("", queryStep(1, domain.StepTypeSQLServerQuery, "SELECT 1", ""))
	f := newFixture(t, job)
	f.sqlserver.ExecuteQueryFn = func(context.Context, string) (*domain.Table, error) {
		return usersTable(), nil
	}

	_, err := f.svc.ExecuteJob(context.Background(), "alice", "job-1", "")
	require.NoError(t, err)

	entry := f.audit.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "alice", entry.PrincipalName)
	assert.Equal(t, "job.execute", entry.Action)
	assert.Equal(t, "success", entry.Status)
	require.NotNil(t, entry.JobName)
	assert.Equal(t, "reporting", *entry.JobName)
	require.NotNil(t, entry.ExecutionID)
}
