package workflow

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"sqlstudio/internal/domain"
)

// Scheduler manages cron-based job execution.
type Scheduler struct {
	cron    *cron.Cron
	svc     *Service
	jobs    domain.JobRepository
	logger  *slog.Logger
	mu      sync.Mutex
	entries map[string]cron.EntryID // job ID → cron entry
}

// NewScheduler creates a new job scheduler.
func NewScheduler(svc *Service, jobs domain.JobRepository, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		svc:     svc,
		jobs:    jobs,
		logger:  logger,
		entries: make(map[string]cron.EntryID),
	}
}

// Start loads all scheduled jobs and starts the cron scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.loadSchedules(ctx); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("job scheduler started")
	return nil
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("job scheduler stopped")
}

// Reload clears all cron entries and reloads from the database.
// Implements the ScheduleReloader interface.
func (s *Scheduler) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entryID := range s.entries {
		s.cron.Remove(entryID)
	}
	s.entries = make(map[string]cron.EntryID)

	return s.loadSchedules(ctx)
}

// loadSchedules queries for active scheduled jobs and adds them to cron.
func (s *Scheduler) loadSchedules(ctx context.Context) error {
	jobs, err := s.jobs.ListScheduledJobs(ctx)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		if job.ScheduleCron == nil {
			continue
		}
		schedule := *job.ScheduleCron
		jobID := job.ID
		jobName := job.Name
		createdBy := job.CreatedBy

		entryID, err := s.cron.AddFunc(schedule, func() {
			ctx := context.Background()
			_, execErr := s.svc.ExecuteJob(ctx, createdBy, jobID, domain.TriggerTypeScheduled)
			if execErr != nil {
				s.logger.Warn("scheduled execution failed",
					"job", jobName,
					"error", execErr,
				)
			}
		})
		if err != nil {
			s.logger.Warn("invalid cron schedule",
				"job", jobName,
				"schedule", schedule,
				"error", err,
			)
			continue
		}

		s.entries[jobID] = entryID
		s.logger.Info("scheduled job", "job", jobName, "schedule", schedule)
	}

	return nil
}

// Compile-time check that Scheduler implements ScheduleReloader.
var _ ScheduleReloader = (*Scheduler)(nil)
