package workflow

import "sqlstudio/internal/domain"

// ValidateJob confirms a job is runnable before any side effect occurs.
// Workflow jobs need a definition with at least one step; function jobs need
// a target function. Validation is pure and runs before any backend is
// contacted.
func ValidateJob(job *domain.Job) error {
	switch job.JobType {
	case domain.JobTypeWorkflow:
		if job.WorkflowDefinition == nil || len(job.WorkflowDefinition.Steps) == 0 {
			return domain.ErrValidation("Invalid job configuration")
		}
	case domain.JobTypeFunction:
		if job.TargetFunction == "" {
			return domain.ErrValidation("Invalid job configuration")
		}
	default:
		return domain.ErrValidation("Invalid job configuration")
	}
	return nil
}
