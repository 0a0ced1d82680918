// Package scheduler runs the periodic background jobs: currently the
// stale-need status sweep.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"log/slog"

	"churchbot/core/logger"
)

// Sweeper is the engine-side job the scheduler triggers.
type Sweeper interface {
	SweepStaleNeeds(ctx context.Context, staleAfter time.Duration) error
}

// Scheduler owns the cron runner.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

// New builds a scheduler with the status sweep registered. spec is a cron
// expression or a descriptor like "@every 10m".
func New(sweeper Sweeper, spec string, staleAfter time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(),
		log:  logger.Component("scheduler"),
	}
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := sweeper.SweepStaleNeeds(ctx, staleAfter); err != nil {
			logger.LogEvent(ctx, s.log, slog.LevelError, "scheduler.sweep_failed",
				slog.String("err", err.Error()))
		}
	})
	if err != nil {
		return nil, err
	}
	logger.LogEvent(context.Background(), s.log, slog.LevelInfo, "scheduler.registered",
		slog.String("spec", spec),
		slog.Duration("stale_after", staleAfter))
	return s, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
