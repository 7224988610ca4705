package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sqlstudio/internal/domain"
)

// executionJSON is the wire shape of an execution record.
type executionJSON struct {
	ID              string           `json:"id"`
	JobID           string           `json:"job_id"`
	Status          string           `json:"status"`
	TriggerType     string           `json:"trigger_type"`
	StartedAt       *time.Time       `json:"started_at,omitempty"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	DurationSeconds *float64         `json:"duration_seconds,omitempty"`
	ErrorMessage    *string          `json:"error_message,omitempty"`
	RowsProcessed   *int64           `json:"rows_processed,omitempty"`
	StepResults     []stepResultJSON `json:"step_results,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

type stepResultJSON struct {
	StepNumber   int       `json:"step_number"`
	StepName     string    `json:"step_name"`
	Status       string    `json:"status"`
	RowsAffected *int64    `json:"rows_affected,omitempty"`
	ErrorMessage *string   `json:"error,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
}

func executionToJSON(exec *domain.Execution) executionJSON {
	out := executionJSON{
		ID:              exec.ID,
		JobID:           exec.JobID,
		Status:          exec.Status,
		TriggerType:     exec.TriggerType,
		StartedAt:       exec.StartedAt,
		CompletedAt:     exec.CompletedAt,
		DurationSeconds: exec.DurationSeconds,
		ErrorMessage:    exec.ErrorMessage,
		RowsProcessed:   exec.RowsProcessed,
		CreatedAt:       exec.CreatedAt,
	}
	for _, sr := range exec.StepResults {
		out.StepResults = append(out.StepResults, stepResultJSON{
			StepNumber:   sr.StepNumber,
			StepName:     sr.StepName,
			Status:       sr.Status,
			RowsAffected: sr.RowsAffected,
			ErrorMessage: sr.ErrorMessage,
			StartedAt:    sr.StartedAt,
			CompletedAt:  sr.CompletedAt,
		})
	}
	return out
}

type executeJobBody struct {
	TriggerType string `json:"trigger_type"`
}

// executeJob runs a job synchronously and returns its terminal execution.
// A failed execution is returned with the error's status code so callers
// see both the failure and the per-step record in one response.
func (h *Handler) executeJob(w http.ResponseWriter, r *http.Request) {
	var body executeJobBody
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, domain.ErrValidation("invalid request body: %v", err))
			return
		}
	}
	if body.TriggerType != "" && body.TriggerType != domain.TriggerTypeManual && body.TriggerType != domain.TriggerTypeScheduled {
		writeError(w, domain.ErrValidation("trigger_type must be %q or %q", domain.TriggerTypeManual, domain.TriggerTypeScheduled))
		return
	}

	exec, err := h.workflow.ExecuteJob(r.Context(), principal(r), chi.URLParam(r, "jobID"), body.TriggerType)
	if err != nil {
		if exec == nil {
			writeError(w, err)
			return
		}
		writeJSON(w, httpStatusFromDomainError(err), executionToJSON(exec))
		return
	}
	writeJSON(w, http.StatusOK, executionToJSON(exec))
}

func (h *Handler) getExecution(w http.ResponseWriter, r *http.Request) {
	exec, err := h.workflow.GetExecution(r.Context(), chi.URLParam(r, "executionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, executionToJSON(exec))
}

func (h *Handler) listExecutions(w http.ResponseWriter, r *http.Request) {
	h.writeExecutionList(w, r, nil)
}

func (h *Handler) listJobExecutions(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	h.writeExecutionList(w, r, &jobID)
}

func (h *Handler) writeExecutionList(w http.ResponseWriter, r *http.Request, jobID *string) {
	filter := domain.ExecutionFilter{JobID: jobID, Page: pageFromQuery(r)}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	execs, total, err := h.workflow.ListExecutions(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]executionJSON, len(execs))
	for i := range execs {
		items[i] = executionToJSON(&execs[i])
	}
	writeJSON(w, http.StatusOK, listResponse{
		Items:         items,
		TotalCount:    total,
		NextPageToken: domain.NextPageToken(filter.Page.Offset(), filter.Page.Limit(), total),
	})
}
