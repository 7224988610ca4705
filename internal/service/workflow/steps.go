package workflow

import (
	"context"

	"sqlstudio/internal/domain"
)

// stepFunc runs one workflow step against the execution's table store and
// returns the produced table.
type stepFunc func(ctx context.Context, step domain.Step, store *TableStore) (*domain.Table, error)

// dispatchTable maps each step type onto its handler. Adding a step type is
// a new entry here plus its handler.
func (s *Service) dispatchTable() map[string]stepFunc {
	return map[string]stepFunc{
		domain.StepTypeSQLServerQuery: s.runQueryStep,
		domain.StepTypeRedshiftQuery:  s.runQueryStep,
		domain.StepTypeDuckDBQuery:    s.runQueryStep,
		domain.StepTypeMerge:          s.runMergeStep,
	}
}

// runStep dispatches a step by its type discriminator. An unknown step type
// is a configuration error.
func (s *Service) runStep(ctx context.Context, step domain.Step, store *TableStore) (*domain.Table, error) {
	fn, ok := s.dispatch[step.StepType]
	if !ok {
		return nil, domain.ErrValidation("unknown step type '%s'", step.StepType)
	}
	return fn(ctx, step, store)
}

// runQueryStep resolves the step type to its configured backend and runs the
// query verbatim. No templating or parameter substitution happens here.
func (s *Service) runQueryStep(ctx context.Context, step domain.Step, _ *TableStore) (*domain.Table, error) {
	if step.Query == "" {
		return nil, domain.ErrValidation("No query provided")
	}

	executor, ok := s.backends.Resolve(step.StepType)
	if !ok {
		return nil, domain.ErrValidation("no backend configured for step type '%s'", step.StepType)
	}

	return executor.ExecuteQuery(ctx, step.Query)
}

// runMergeStep combines previously saved tables. Merges never contact a
// backend; all inputs come from the store.
func (s *Service) runMergeStep(_ context.Context, step domain.Step, store *TableStore) (*domain.Table, error) {
	return mergeTables(step, store)
}

// outputName returns the name a step's result is published under.
func outputName(step domain.Step) string {
	if step.SaveAs != "" {
		return step.SaveAs
	}
	return defaultOutputName(step.StepNumber)
}
