package domain

import "time"

// EventKind identifies a lifecycle progress event.
type EventKind string

// Progress event kinds emitted during an execution.
const (
	EventExecutionStarted   EventKind = "execution_started"
	EventStepStarted        EventKind = "step_started"
	EventStepCompleted      EventKind = "step_completed"
	EventStepFailed         EventKind = "step_failed"
	EventExecutionCompleted EventKind = "execution_completed"
	EventExecutionFailed    EventKind = "execution_failed"
)

// Event is a fire-and-forget progress notification. Delivery is best-effort;
// a dropped event never affects the execution that produced it.
type Event struct {
	Kind        EventKind `json:"event"`
	JobID       string    `json:"job_id"`
	ExecutionID string    `json:"execution_id"`
	StepNumber  *int      `json:"step_number,omitempty"`
	StepName    string    `json:"step_name,omitempty"`
	RowCount    *int64    `json:"row_count,omitempty"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
