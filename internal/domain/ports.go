package domain

import "context"

// QueryExecutor is the capability set a query backend exposes to the engine.
// The SQL text is passed verbatim; the engine performs no templating or
// parameter substitution. Implemented by backend.Executor for each configured
// database.
type QueryExecutor interface {
	ExecuteQuery(ctx context.Context, query string) (*Table, error)
}

// BackendResolver maps a query step type onto its configured backend.
type BackendResolver interface {
	Resolve(stepType string) (QueryExecutor, bool)
}

// FunctionRegistry invokes named functions for function-type jobs.
type FunctionRegistry interface {
	Invoke(ctx context.Context, name string, params map[string]interface{}) (interface{}, error)
}

// Broadcaster delivers progress events to interested listeners. Fire and
// forget: implementations must never block the caller indefinitely, and
// delivery failures stay inside the broadcaster.
type Broadcaster interface {
	Broadcast(jobID string, event Event)
}
