// Package app provides application-level wiring and dependency injection
// for the sqlstudio server.
package app

import (
	"database/sql"
	"log/slog"

	"sqlstudio/internal/backend"
	"sqlstudio/internal/broadcast"
	"sqlstudio/internal/config"
	"sqlstudio/internal/db/repository"
	"sqlstudio/internal/domain"
	"sqlstudio/internal/functions"
	"sqlstudio/internal/service/workflow"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create itself:
// database handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// App holds the fully-wired application: the workflow service, scheduler,
// broadcast hub, and the repositories the API handler needs.
type App struct {
	Workflow  *workflow.Service
	Scheduler *workflow.Scheduler
	Hub       *broadcast.Hub
	Functions *functions.Registry
	Backends  *backend.Registry
	AuditRepo domain.AuditRepository
}

// New wires all repositories, backends, and services from the provided deps.
// Query backends are registered only for the engines whose DSNs are
// configured; steps targeting an unconfigured backend fail at execution
// time with a validation error.
func New(deps Deps) (*App, error) {
	cfg := deps.Cfg

	// === Repositories ===
	// Write-pool for the repos the workflow engine mutates; the API's
	// audit listing goes through the read pool.
	jobRepo := repository.NewJobRepo(deps.WriteDB)
	execRepo := repository.NewExecutionRepo(deps.WriteDB)
	auditRepo := repository.NewAuditRepo(deps.WriteDB)
	auditReadRepo := repository.NewAuditRepo(deps.ReadDB)

	// === Query backends ===
	backends := backend.NewRegistry()
	if cfg.SQLServerDSN != "" {
		exec, err := backend.OpenSQLServer(cfg.SQLServerDSN, deps.Logger)
		if err != nil {
			return nil, err
		}
		backends.Register(domain.StepTypeSQLServerQuery, exec)
	}
	if cfg.RedshiftDSN != "" {
		exec, err := backend.OpenRedshift(cfg.RedshiftDSN, deps.Logger)
		if err != nil {
			return nil, err
		}
		backends.Register(domain.StepTypeRedshiftQuery, exec)
	}
	if cfg.DuckDBPath != "" {
		exec, err := backend.OpenDuckDB(cfg.DuckDBPath, deps.Logger)
		if err != nil {
			return nil, err
		}
		backends.Register(domain.StepTypeDuckDBQuery, exec)
	}

	// === Broadcast hub ===
	hub := broadcast.NewHub(deps.Logger.With("component", "broadcast"))

	// === Function registry ===
	fnRegistry := functions.NewRegistry(deps.Logger.With("component", "functions"))
	fnRegistry.Register("cleanup_executions", functions.CleanupExecutions(execRepo))

	// === Workflow service and scheduler ===
	svc := workflow.NewService(
		jobRepo, execRepo, auditRepo,
		backends, fnRegistry, hub,
		deps.Logger.With("component", "workflow"),
	)
	scheduler := workflow.NewScheduler(svc, jobRepo, deps.Logger.With("component", "scheduler"))
	svc.SetScheduleReloader(scheduler)

	return &App{
		Workflow:  svc,
		Scheduler: scheduler,
		Hub:       hub,
		Functions: fnRegistry,
		Backends:  backends,
		AuditRepo: auditReadRepo,
	}, nil
}

// Close releases the query backend connections. The metastore pools are
// owned by main() and closed there.
func (a *App) Close() error {
	return a.Backends.Close()
}
