// Package jobs runs background maintenance on a schedule.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// SessionCleaner removes expired sessions
type SessionCleaner interface {
	CleanExpired(ctx context.Context) (int64, error)
}

// sweepTimeout bounds a single sweep
const sweepTimeout = 30 * time.Second

// Scheduler owns the background jobs of the server process
type Scheduler struct {
	sched  gocron.Scheduler
	logger *slog.Logger
}

// NewScheduler creates a scheduler that sweeps expired sessions every interval.
// Jobs do not run until Start is called.
func NewScheduler(cleaner SessionCleaner, interval time.Duration, logger *slog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &Scheduler{sched: sched, logger: logger}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.sweep(cleaner) }),
		gocron.WithName("session-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}
	return s, nil
}

// Start begins running jobs in the background
func (s *Scheduler) Start() {
	s.sched.Start()
}

// Shutdown stops the scheduler, waiting for running jobs to finish
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

func (s *Scheduler) sweep(cleaner SessionCleaner) {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	removed, err := cleaner.CleanExpired(ctx)
	if err != nil {
		s.logger.Error("session sweep failed", slog.String("error", err.Error()))
		return
	}
	if removed > 0 {
		s.logger.Info("expired sessions removed", slog.Int64("count", removed))
	}
}
