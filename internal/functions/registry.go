// Package functions hosts the built-in functions a function-type job can
// target, keyed by name.
package functions

import (
	"context"
	"log/slog"

	"sqlstudio/internal/domain"
)

// Func is a built-in invocable with job parameters.
type Func func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// Registry resolves function names to implementations. Registration
// happens at startup; Invoke is safe for concurrent use afterwards.
type Registry struct {
	funcs  map[string]Func
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		funcs:  make(map[string]Func),
		logger: logger.With("component", "functions"),
	}
}

var _ domain.FunctionRegistry = (*Registry)(nil)

func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Names returns the registered function names, for discovery endpoints.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	return names
}

func (r *Registry) Invoke(ctx context.Context, name string, params map[string]interface{}) (interface{}, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return nil, domain.ErrNotFound("function %s not found", name)
	}

	r.logger.Info("invoking function", "function", name)
	result, err := fn(ctx, params)
	if err != nil {
		r.logger.Error("function failed", "function", name, "error", err)
		return nil, err
	}
	return result, nil
}
