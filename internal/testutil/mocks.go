// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"time"

	"sqlstudio/internal/domain"
)

// === Job Repository Mock ===

// MockJobRepo implements domain.JobRepository for testing.
type MockJobRepo struct {
	CreateJobFn         func(ctx context.Context, job *domain.Job) (*domain.Job, error)
	GetJobByIDFn        func(ctx context.Context, id string) (*domain.Job, error)
	GetJobByNameFn      func(ctx context.Context, name string) (*domain.Job, error)
	ListJobsFn          func(ctx context.Context, page domain.PageRequest) ([]domain.Job, int64, error)
	UpdateJobFn         func(ctx context.Context, id string, req domain.UpdateJobRequest) (*domain.Job, error)
	DeleteJobFn         func(ctx context.Context, id string) error
	ListScheduledJobsFn func(ctx context.Context) ([]domain.Job, error)
	UpdateLastRunTimeFn func(ctx context.Context, id string, t time.Time) error

	LastRunUpdates []string // job IDs passed to UpdateLastRunTime
}

func (m *MockJobRepo) CreateJob(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	if m.CreateJobFn != nil {
		return m.CreateJobFn(ctx, job)
	}
	panic("unexpected call to MockJobRepo.CreateJob")
}

func (m *MockJobRepo) GetJobByID(ctx context.Context, id string) (*domain.Job, error) {
	if m.GetJobByIDFn != nil {
		return m.GetJobByIDFn(ctx, id)
	}
	panic("unexpected call to MockJobRepo.GetJobByID")
}

func (m *MockJobRepo) GetJobByName(ctx context.Context, name string) (*domain.Job, error) {
	if m.GetJobByNameFn != nil {
		return m.GetJobByNameFn(ctx, name)
	}
	panic("unexpected call to MockJobRepo.GetJobByName")
}

func (m *MockJobRepo) ListJobs(ctx context.Context, page domain.PageRequest) ([]domain.Job, int64, error) {
	if m.ListJobsFn != nil {
		return m.ListJobsFn(ctx, page)
	}
	panic("unexpected call to MockJobRepo.ListJobs")
}

func (m *MockJobRepo) UpdateJob(ctx context.Context, id string, req domain.UpdateJobRequest) (*domain.Job, error) {
	if m.UpdateJobFn != nil {
		return m.UpdateJobFn(ctx, id, req)
	}
	panic("unexpected call to MockJobRepo.UpdateJob")
}

func (m *MockJobRepo) DeleteJob(ctx context.Context, id string) error {
	if m.DeleteJobFn != nil {
		return m.DeleteJobFn(ctx, id)
	}
	panic("unexpected call to MockJobRepo.DeleteJob")
}

func (m *MockJobRepo) ListScheduledJobs(ctx context.Context) ([]domain.Job, error) {
	if m.ListScheduledJobsFn != nil {
		return m.ListScheduledJobsFn(ctx)
	}
	panic("unexpected call to MockJobRepo.ListScheduledJobs")
}

func (m *MockJobRepo) UpdateLastRunTime(ctx context.Context, id string, t time.Time) error {
	m.LastRunUpdates = append(m.LastRunUpdates, id)
	if m.UpdateLastRunTimeFn != nil {
		return m.UpdateLastRunTimeFn(ctx, id, t)
	}
	return nil
}

// === Execution Repository Mock ===

// MockExecutionRepo implements domain.ExecutionRepository for testing. By
// default it keeps executions and step results in memory so orchestrator
// tests can run against it without stubbing every method.
type MockExecutionRepo struct {
	CreateExecutionFn      func(ctx context.Context, jobID, triggerType string) (*domain.Execution, error)
	GetExecutionByIDFn     func(ctx context.Context, id string) (*domain.Execution, error)
	ListExecutionsFn       func(ctx context.Context, filter domain.ExecutionFilter) ([]domain.Execution, int64, error)
	MarkRunningFn          func(ctx context.Context, id string, startedAt time.Time) error
	MarkFinishedFn         func(ctx context.Context, id string, status string, errMsg *string, rowsProcessed *int64, duration float64) error
	AppendStepResultFn     func(ctx context.Context, result *domain.StepResult) error
	DeleteFinishedBeforeFn func(ctx context.Context, cutoff time.Time) (int64, error)

	Executions  map[string]*domain.Execution
	StepResults []domain.StepResult
	nextID      int
}

func (m *MockExecutionRepo) CreateExecution(ctx context.Context, jobID, triggerType string) (*domain.Execution, error) {
	if m.CreateExecutionFn != nil {
		return m.CreateExecutionFn(ctx, jobID, triggerType)
	}
	if m.Executions == nil {
		m.Executions = make(map[string]*domain.Execution)
	}
	m.nextID++
	exec := &domain.Execution{
		ID:          "exec-" + itoa(m.nextID),
		JobID:       jobID,
		Status:      domain.ExecutionStatusPending,
		TriggerType: triggerType,
		CreatedAt:   time.Now().UTC(),
	}
	m.Executions[exec.ID] = exec
	return cloneExecution(exec), nil
}

func (m *MockExecutionRepo) GetExecutionByID(ctx context.Context, id string) (*domain.Execution, error) {
	if m.GetExecutionByIDFn != nil {
		return m.GetExecutionByIDFn(ctx, id)
	}
	exec, ok := m.Executions[id]
	if !ok {
		return nil, domain.ErrNotFound("execution %s not found", id)
	}
	out := cloneExecution(exec)
	for _, sr := range m.StepResults {
		if sr.ExecutionID == id {
			out.StepResults = append(out.StepResults, sr)
		}
	}
	return out, nil
}

func (m *MockExecutionRepo) ListExecutions(ctx context.Context, filter domain.ExecutionFilter) ([]domain.Execution, int64, error) {
	if m.ListExecutionsFn != nil {
		return m.ListExecutionsFn(ctx, filter)
	}
	panic("unexpected call to MockExecutionRepo.ListExecutions")
}

func (m *MockExecutionRepo) MarkRunning(ctx context.Context, id string, startedAt time.Time) error {
	if m.MarkRunningFn != nil {
		return m.MarkRunningFn(ctx, id, startedAt)
	}
	if exec, ok := m.Executions[id]; ok {
		exec.Status = domain.ExecutionStatusRunning
		t := startedAt
		exec.StartedAt = &t
	}
	return nil
}

func (m *MockExecutionRepo) MarkFinished(ctx context.Context, id string, status string, errMsg *string, rowsProcessed *int64, duration float64) error {
	if m.MarkFinishedFn != nil {
		return m.MarkFinishedFn(ctx, id, status, errMsg, rowsProcessed, duration)
	}
	if exec, ok := m.Executions[id]; ok {
		exec.Status = status
		exec.ErrorMessage = errMsg
		exec.RowsProcessed = rowsProcessed
		d := duration
		exec.DurationSeconds = &d
		now := time.Now().UTC()
		exec.CompletedAt = &now
	}
	return nil
}

func (m *MockExecutionRepo) AppendStepResult(ctx context.Context, result *domain.StepResult) error {
	if m.AppendStepResultFn != nil {
		return m.AppendStepResultFn(ctx, result)
	}
	m.StepResults = append(m.StepResults, *result)
	return nil
}

func (m *MockExecutionRepo) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteFinishedBeforeFn != nil {
		return m.DeleteFinishedBeforeFn(ctx, cutoff)
	}
	panic("unexpected call to MockExecutionRepo.DeleteFinishedBefore")
}

// ResultsForStep returns the recorded step results in append order.
func (m *MockExecutionRepo) ResultsForStep(stepNumber int) []domain.StepResult {
	var out []domain.StepResult
	for _, sr := range m.StepResults {
		if sr.StepNumber == stepNumber {
			out = append(out, sr)
		}
	}
	return out
}

func cloneExecution(exec *domain.Execution) *domain.Execution {
	out := *exec
	return &out
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// === Audit Repository Mock ===

// MockAuditRepo implements domain.AuditRepository for testing.
type MockAuditRepo struct {
	InsertFn func(ctx context.Context, e *domain.AuditEntry) error
	ListFn   func(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error)
	Entries  []*domain.AuditEntry // collected entries for assertions
}

func (m *MockAuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, e); err != nil {
			return err
		}
	}
	m.Entries = append(m.Entries, e)
	return nil
}

func (m *MockAuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	panic("unexpected call to MockAuditRepo.List")
}

// LastEntry returns the last collected audit entry, or nil if none.
func (m *MockAuditRepo) LastEntry() *domain.AuditEntry {
	if len(m.Entries) == 0 {
		return nil
	}
	return m.Entries[len(m.Entries)-1]
}

// === Query Executor Mock ===

// MockQueryExecutor implements domain.QueryExecutor for testing. It records
// every query it receives.
type MockQueryExecutor struct {
	ExecuteQueryFn func(ctx context.Context, query string) (*domain.Table, error)
	Queries        []string
}

func (m *MockQueryExecutor) ExecuteQuery(ctx context.Context, query string) (*domain.Table, error) {
	m.Queries = append(m.Queries, query)
	if m.ExecuteQueryFn != nil {
		return m.ExecuteQueryFn(ctx, query)
	}
	return &domain.Table{}, nil
}

// === Backend Resolver Mock ===

// MockBackendResolver implements domain.BackendResolver for testing.
type MockBackendResolver struct {
	Backends map[string]domain.QueryExecutor
}

func (m *MockBackendResolver) Resolve(stepType string) (domain.QueryExecutor, bool) {
	executor, ok := m.Backends[stepType]
	return executor, ok
}

// === Broadcaster Mock ===

// MockBroadcaster implements domain.Broadcaster for testing. It collects
// every event in broadcast order.
type MockBroadcaster struct {
	Events []domain.Event
}

func (m *MockBroadcaster) Broadcast(jobID string, event domain.Event) {
	m.Events = append(m.Events, event)
}

// Kinds returns the event kinds in broadcast order.
func (m *MockBroadcaster) Kinds() []domain.EventKind {
	kinds := make([]domain.EventKind, 0, len(m.Events))
	for _, e := range m.Events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// === Function Registry Mock ===

// MockFunctionRegistry implements domain.FunctionRegistry for testing.
type MockFunctionRegistry struct {
	InvokeFn func(ctx context.Context, name string, params map[string]interface{}) (interface{}, error)
	Invoked  []string
}

func (m *MockFunctionRegistry) Invoke(ctx context.Context, name string, params map[string]interface{}) (interface{}, error) {
	m.Invoked = append(m.Invoked, name)
	if m.InvokeFn != nil {
		return m.InvokeFn(ctx, name, params)
	}
	return nil, nil
}
