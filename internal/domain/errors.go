// Package domain defines core types, interfaces, and errors for the SQL studio.
package domain

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError indicates a structurally invalid job, step, or request.
// Validation failures are always fatal to an execution, regardless of the
// workflow's error-handling mode.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a conflict (e.g., duplicate resource).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ExecutionError indicates a runtime step failure (bad SQL, connectivity).
// Unlike validation errors, execution errors are subject to the workflow's
// error-handling mode.
type ExecutionError struct {
	StepNumber int
	Message    string
}

func (e *ExecutionError) Error() string { return e.Message }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrExecution creates an ExecutionError for the given step.
func ErrExecution(stepNumber int, format string, args ...interface{}) *ExecutionError {
	return &ExecutionError{StepNumber: stepNumber, Message: fmt.Sprintf(format, args...)}
}
