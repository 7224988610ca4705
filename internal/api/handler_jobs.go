package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sqlstudio/internal/domain"
)

// jobJSON is the wire shape of a job.
type jobJSON struct {
	ID                 string                     `json:"id"`
	Name               string                     `json:"name"`
	Description        string                     `json:"description,omitempty"`
	JobType            string                     `json:"job_type"`
	WorkflowDefinition *domain.WorkflowDefinition `json:"workflow_definition,omitempty"`
	TargetFunction     string                     `json:"target_function,omitempty"`
	Parameters         map[string]interface{}     `json:"parameters,omitempty"`
	MaxRetries         int                        `json:"max_retries"`
	RetryDelaySeconds  int                        `json:"retry_delay_seconds"`
	ScheduleCron       *string                    `json:"schedule_cron,omitempty"`
	IsPaused           bool                       `json:"is_paused"`
	CreatedBy          string                     `json:"created_by"`
	LastRunTime        *time.Time                 `json:"last_run_time,omitempty"`
	CreatedAt          time.Time                  `json:"created_at"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}

func jobToJSON(job *domain.Job) jobJSON {
	return jobJSON{
		ID:                 job.ID,
		Name:               job.Name,
		Description:        job.Description,
		JobType:            job.JobType,
		WorkflowDefinition: job.WorkflowDefinition,
		TargetFunction:     job.TargetFunction,
		Parameters:         job.Parameters,
		MaxRetries:         job.MaxRetries,
		RetryDelaySeconds:  job.RetryDelaySeconds,
		ScheduleCron:       job.ScheduleCron,
		IsPaused:           job.IsPaused,
		CreatedBy:          job.CreatedBy,
		LastRunTime:        job.LastRunTime,
		CreatedAt:          job.CreatedAt,
		UpdatedAt:          job.UpdatedAt,
	}
}

type createJobBody struct {
	Name               string                     `json:"name"`
	Description        string                     `json:"description"`
	JobType            string                     `json:"job_type"`
	WorkflowDefinition *domain.WorkflowDefinition `json:"workflow_definition"`
	TargetFunction     string                     `json:"target_function"`
	Parameters         map[string]interface{}     `json:"parameters"`
	MaxRetries         int                        `json:"max_retries"`
	RetryDelaySeconds  int                        `json:"retry_delay_seconds"`
	ScheduleCron       *string                    `json:"schedule_cron"`
	IsPaused           bool                       `json:"is_paused"`
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	var body createJobBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, domain.ErrValidation("invalid request body: %v", err))
		return
	}

	job, err := h.workflow.CreateJob(r.Context(), principal(r), domain.CreateJobRequest{
		Name:               body.Name,
		Description:        body.Description,
		JobType:            body.JobType,
		WorkflowDefinition: body.WorkflowDefinition,
		TargetFunction:     body.TargetFunction,
		Parameters:         body.Parameters,
		MaxRetries:         body.MaxRetries,
		RetryDelaySeconds:  body.RetryDelaySeconds,
		ScheduleCron:       body.ScheduleCron,
		IsPaused:           body.IsPaused,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jobToJSON(job))
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.workflow.GetJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToJSON(job))
}

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	jobs, total, err := h.workflow.ListJobs(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]jobJSON, len(jobs))
	for i := range jobs {
		items[i] = jobToJSON(&jobs[i])
	}
	writeJSON(w, http.StatusOK, listResponse{
		Items:         items,
		TotalCount:    total,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	})
}

type updateJobBody struct {
	Description        *string                    `json:"description"`
	WorkflowDefinition *domain.WorkflowDefinition `json:"workflow_definition"`
	TargetFunction     *string                    `json:"target_function"`
	Parameters         map[string]interface{}     `json:"parameters"`
	MaxRetries         *int                       `json:"max_retries"`
	RetryDelaySeconds  *int                       `json:"retry_delay_seconds"`
	ScheduleCron       *string                    `json:"schedule_cron"`
	IsPaused           *bool                      `json:"is_paused"`
}

func (h *Handler) updateJob(w http.ResponseWriter, r *http.Request) {
	var body updateJobBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, domain.ErrValidation("invalid request body: %v", err))
		return
	}

	job, err := h.workflow.UpdateJob(r.Context(), principal(r), chi.URLParam(r, "jobID"), domain.UpdateJobRequest{
		Description:        body.Description,
		WorkflowDefinition: body.WorkflowDefinition,
		TargetFunction:     body.TargetFunction,
		Parameters:         body.Parameters,
		MaxRetries:         body.MaxRetries,
		RetryDelaySeconds:  body.RetryDelaySeconds,
		ScheduleCron:       body.ScheduleCron,
		IsPaused:           body.IsPaused,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToJSON(job))
}

func (h *Handler) deleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.DeleteJob(r.Context(), principal(r), chi.URLParam(r, "jobID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
