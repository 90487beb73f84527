// Package scheduler runs the background jobs that drive time-based
// notification events: overdue documentation scans, appointment reminders,
// and data quality checks.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a named unit of scheduled work.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler wraps a cron runner with per-job logging and a run timeout.
type Scheduler struct {
	cron    *cron.Cron
	log     zerolog.Logger
	timeout time.Duration
}

// New creates a scheduler. Jobs run in the server's local time zone.
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		log:     log,
		timeout: 10 * time.Minute,
	}
}

// Register adds a job at its cron spec. Standard five-field specs are
// accepted.
func (s *Scheduler) Register(job Job) error {
	_, err := s.cron.AddFunc(job.Spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		if err := job.Run(ctx); err != nil {
			s.log.Error().Err(err).Str("job", job.Name).Msg("scheduled job failed")
			return
		}
		s.log.Info().Str("job", job.Name).Dur("took", time.Since(start)).
			Msg("scheduled job complete")
	})
	if err != nil {
		return fmt.Errorf("register job %s (%q): %w", job.Name, job.Spec, err)
	}
	s.log.Info().Str("job", job.Name).Str("spec", job.Spec).Msg("scheduled job registered")
	return nil
}

// Start begins running registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
