package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlstudio/internal/domain"
)

func TestValidateJob(t *testing.T) {
	tests := []struct {
		name    string
		job     *domain.Job
		wantErr bool
	}{
		{
			name: "workflow with steps",
			job: &domain.Job{
				JobType: domain.JobTypeWorkflow,
				WorkflowDefinition: &domain.WorkflowDefinition{
					Steps: []domain.Step{{StepNumber: 1, StepType: domain.StepTypeDuckDBQuery, Query: "SELECT 1"}},
				},
			},
		},
		{
			name:    "workflow without definition",
			job:     &domain.Job{JobType: domain.JobTypeWorkflow},
			wantErr: true,
		},
		{
			name: "workflow with empty steps",
			job: &domain.Job{
				JobType:            domain.JobTypeWorkflow,
				WorkflowDefinition: &domain.WorkflowDefinition{},
			},
			wantErr: true,
		},
		{
			name: "function with target",
			job:  &domain.Job{JobType: domain.JobTypeFunction, TargetFunction: "cleanup_executions"},
		},
		{
			name:    "function without target",
			job:     &domain.Job{JobType: domain.JobTypeFunction},
			wantErr: true,
		},
		{
			name:    "unknown job type",
			job:     &domain.Job{JobType: "cron"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJob(tt.job)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Invalid job configuration")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
