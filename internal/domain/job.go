package domain

import (
	"sort"
	"time"
)

// Job type constants.
const (
	JobTypeWorkflow = "workflow"
	JobTypeFunction = "function"
)

// Error-handling modes for a workflow run.
const (
	ErrorHandlingStop     = "stop"
	ErrorHandlingContinue = "continue"
)

// Trigger type constants.
const (
	TriggerTypeManual    = "manual"
	TriggerTypeScheduled = "scheduled"
)

// Step type discriminators. Query step types map one-to-one onto configured
// query backends; merge steps are resolved in-process.
const (
	StepTypeSQLServerQuery = "sqlserver_query"
	StepTypeRedshiftQuery  = "redshift_query"
	StepTypeDuckDBQuery    = "duckdb_query"
	StepTypeMerge          = "merge"
)

// Merge type constants.
const (
	MergeTypeUnion     = "union"
	MergeTypeInnerJoin = "inner_join"
	MergeTypeLeftJoin  = "left_join"
	MergeTypeRightJoin = "right_join"
	MergeTypeFullJoin  = "full_join"
)

// Job is a named workflow or function definition owned by the metastore.
type Job struct {
	ID                 string
	Name               string
	Description        string
	JobType            string
	WorkflowDefinition *WorkflowDefinition // set iff JobType == workflow
	TargetFunction     string              // set iff JobType == function
	Parameters         map[string]interface{}
	MaxRetries         int
	RetryDelaySeconds  int
	ScheduleCron       *string
	IsPaused           bool
	CreatedBy          string
	LastRunTime        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// WorkflowDefinition is the ordered step list plus the fault policy that
// governs the whole run. Serialized as JSON into the jobs table.
type WorkflowDefinition struct {
	Steps         []Step `json:"steps"`
	ErrorHandling string `json:"error_handling,omitempty"`
}

// Step is one unit of work in a workflow. The shape is a tagged union
// discriminated by StepType: query steps carry Query, merge steps carry
// MergeType/SourceTables/JoinKeys. SaveAs publishes the step's result to the
// execution's table store.
type Step struct {
	StepNumber   int       `json:"step_number"`
	StepName     string    `json:"step_name"`
	StepType     string    `json:"step_type"`
	Query        string    `json:"query,omitempty"`
	MergeType    string    `json:"merge_type,omitempty"`
	SourceTables []string  `json:"source_tables,omitempty"`
	JoinKeys     []JoinKey `json:"join_keys,omitempty"`
	SaveAs       string    `json:"save_as,omitempty"`
}

// JoinKey maps a left-table column onto a right-table column for joins.
type JoinKey struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// IsQuery reports whether the step dispatches to a query backend.
func (s Step) IsQuery() bool {
	return s.StepType != StepTypeMerge
}

// StepsInOrder returns the workflow's steps sorted by ascending step number.
// Step numbers define execution order and need not be contiguous.
func (d *WorkflowDefinition) StepsInOrder() []Step {
	steps := make([]Step, len(d.Steps))
	copy(steps, d.Steps)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].StepNumber < steps[j].StepNumber
	})
	return steps
}

// CreateJobRequest holds parameters for creating a job.
type CreateJobRequest struct {
	Name               string
	Description        string
	JobType            string
	WorkflowDefinition *WorkflowDefinition
	TargetFunction     string
	Parameters         map[string]interface{}
	MaxRetries         int
	RetryDelaySeconds  int
	ScheduleCron       *string
	IsPaused           bool
}

// Validate checks that the request is well-formed.
func (r *CreateJobRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("name is required")
	}
	if r.JobType != JobTypeWorkflow && r.JobType != JobTypeFunction {
		return ErrValidation("job_type must be %q or %q", JobTypeWorkflow, JobTypeFunction)
	}
	if r.MaxRetries < 0 {
		return ErrValidation("max_retries must be non-negative")
	}
	if r.RetryDelaySeconds < 0 {
		return ErrValidation("retry_delay_seconds must be non-negative")
	}
	return nil
}

// UpdateJobRequest holds partial-update parameters for a job.
// Nil fields are left unchanged.
type UpdateJobRequest struct {
	Description        *string
	WorkflowDefinition *WorkflowDefinition
	TargetFunction     *string
	Parameters         map[string]interface{}
	MaxRetries         *int
	RetryDelaySeconds  *int
	ScheduleCron       *string // empty string clears the schedule
	IsPaused           *bool
}
