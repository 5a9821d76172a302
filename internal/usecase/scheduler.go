package usecase

import (
	"context"
	"time"

	"ConstructionWatch/internal/ports"
)

// Scheduler wires the interval driver with the orchestrator.
type Scheduler struct {
	driver       ports.Scheduler
	orchestrator *Orchestrator
	parallel     int
}

// NewScheduler returns a helper to start/stop recurring runs. A positive
// parallel value runs sources concurrently with that limit.
func NewScheduler(driver ports.Scheduler, orchestrator *Orchestrator, parallel int) *Scheduler {
	return &Scheduler{driver: driver, orchestrator: orchestrator, parallel: parallel}
}

// Start registers RunAll with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.orchestrator == nil {
		return nil
	}

	job := func(time.Time) {
		if s.parallel > 0 {
			s.orchestrator.RunAllParallel(ctx, s.parallel)
			return
		}
		s.orchestrator.RunAll(ctx)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
