// Package scheduler triggers periodic background syncs.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/guivr/ohmydashboard-sub002/internal/model"
	"github.com/guivr/ohmydashboard-sub002/internal/service"
)

// Orchestrator is the subset of the sync orchestrator the scheduler uses.
type Orchestrator interface {
	SyncAll(ctx context.Context, trigger model.SyncTrigger) ([]*model.SyncResult, error)
}

// Scheduler runs a sync-all on a fixed interval. The cooldown governor
// still applies: a tick that lands inside the window is skipped, not
// queued.
type Scheduler struct {
	orch     Orchestrator
	interval time.Duration
	logger   *slog.Logger

	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
}

// New creates a new Scheduler.
func New(orch Orchestrator, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		orch:     orch,
		interval: interval,
		logger:   logger.With("component", "scheduler"),
	}
}

// Run starts the scheduler loop. Blocks until context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("scheduler already started")
	}
	s.started = true
	s.done = make(chan struct{})
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	defer close(s.done)

	s.logger.Info("scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping")
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	results, err := s.orch.SyncAll(ctx, model.TriggerScheduler)
	if err != nil {
		var rateLimited *service.RateLimitedError
		if errors.As(err, &rateLimited) {
			s.logger.Debug("scheduled sync skipped, cooldown active",
				"retry_after", rateLimited.RetryAfter)
			return
		}
		// Orchestrator errors are already sanitized.
		s.logger.Error("scheduled sync failed", "error", err)
		return
	}

	s.logger.Info("scheduled sync complete", "accounts", len(results))
}

// Shutdown stops the scheduler and waits for the loop to exit.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if done != nil {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			s.logger.Warn("scheduler shutdown timed out")
			return ctx.Err()
		}
	}
	return nil
}
