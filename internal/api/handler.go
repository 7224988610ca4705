// Package api provides the HTTP surface of the SQL studio: job CRUD,
// execution triggers and history, progress event streaming, and audit reads.
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sqlstudio/internal/broadcast"
	"sqlstudio/internal/domain"
	"sqlstudio/internal/functions"
	"sqlstudio/internal/middleware"
	"sqlstudio/internal/service/workflow"
)

// Handler carries the services the HTTP layer exposes.
type Handler struct {
	workflow  *workflow.Service
	hub       *broadcast.Hub
	functions *functions.Registry
	audit     domain.AuditRepository
}

// NewHandler creates a new Handler with all required service dependencies.
func NewHandler(svc *workflow.Service, hub *broadcast.Hub, registry *functions.Registry, audit domain.AuditRepository) *Handler {
	return &Handler{
		workflow:  svc,
		hub:       hub,
		functions: registry,
		audit:     audit,
	}
}

// Routes mounts all API endpoints on a router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", h.createJob)
			r.Get("/", h.listJobs)
			r.Route("/{jobID}", func(r chi.Router) {
				r.Get("/", h.getJob)
				r.Patch("/", h.updateJob)
				r.Delete("/", h.deleteJob)
				r.Post("/execute", h.executeJob)
				r.Get("/executions", h.listJobExecutions)
				r.Get("/events", h.streamEvents)
			})
		})

		r.Route("/executions", func(r chi.Router) {
			r.Get("/", h.listExecutions)
			r.Get("/{executionID}", h.getExecution)
		})

		r.Get("/events", h.streamEvents)
		r.Get("/functions", h.listFunctions)
		r.Get("/audit", h.listAudit)
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listFunctions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"functions": h.functions.Names()})
}

func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	filter := domain.AuditFilter{Page: pageFromQuery(r)}
	if action := r.URL.Query().Get("action"); action != "" {
		filter.Action = &action
	}
	if principal := r.URL.Query().Get("principal"); principal != "" {
		filter.PrincipalName = &principal
	}

	entries, total, err := h.audit.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Items:         entries,
		TotalCount:    total,
		NextPageToken: domain.NextPageToken(filter.Page.Offset(), filter.Page.Limit(), total),
	})
}

// principal returns the caller identity set by the middleware chain.
func principal(r *http.Request) string {
	name, _ := middleware.PrincipalFromContext(r.Context())
	return name
}

// pageFromQuery extracts pagination from max_results/page_token params.
func pageFromQuery(r *http.Request) domain.PageRequest {
	p := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			p.MaxResults = n
		}
	}
	return p
}

// listResponse is the common paginated list envelope.
type listResponse struct {
	Items         interface{} `json:"items"`
	TotalCount    int64       `json:"total_count"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}
