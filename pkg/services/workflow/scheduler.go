package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

// Scheduler repeats readiness runs at a fixed interval and keeps the latest
// report.
type Scheduler struct {
	runner   *Runner
	interval time.Duration
	done     chan struct{}

	mu     sync.RWMutex
	latest *domain.Report
}

func NewScheduler(runner *Runner, interval time.Duration) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Latest returns the report of the most recent successful run.
func (s *Scheduler) Latest() (domain.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return domain.Report{}, false
	}
	return *s.latest, true
}

// Run starts with an immediate run and stops when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx)
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.runOnce(ctx)

		select {
		case <-ctx.Done():
			logger.Info().Msg("readiness scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	res, err := s.runner.RunOnce(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("scheduled readiness run failed")
		return
	}

	s.mu.Lock()
	s.latest = &res.Report
	s.mu.Unlock()
}
