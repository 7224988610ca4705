package backend

import (
	"io"

	"sqlstudio/internal/domain"
)

// Registry maps workflow step types to the executor that serves them.
// Backends are registered at startup based on which DSNs are configured;
// a step type with no registered backend fails resolution at run time.
type Registry struct {
	executors map[string]domain.QueryExecutor
}

func NewRegistry() *Registry {
	return &Registry{executors: make(map[string]domain.QueryExecutor)}
}

var _ domain.BackendResolver = (*Registry)(nil)

func (r *Registry) Register(stepType string, executor domain.QueryExecutor) {
	r.executors[stepType] = executor
}

func (r *Registry) Resolve(stepType string) (domain.QueryExecutor, bool) {
	executor, ok := r.executors[stepType]
	return executor, ok
}

// Close closes every registered executor that holds a connection pool.
// Executors registered under multiple step types are closed once.
func (r *Registry) Close() error {
	closed := make(map[domain.QueryExecutor]bool)
	var firstErr error
	for _, executor := range r.executors {
		if closed[executor] {
			continue
		}
		closed[executor] = true
		c, ok := executor.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
