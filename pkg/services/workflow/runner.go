package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
	"github.com/de-tools/dr-readiness/pkg/services/collector"
	"github.com/de-tools/dr-readiness/pkg/services/notify"
	"github.com/de-tools/dr-readiness/pkg/services/readiness"
	"github.com/de-tools/dr-readiness/pkg/store/history"
)

// RunResult is a finalized report together with the facts it was built from.
type RunResult struct {
	Report domain.Report
	Input  readiness.Input
}

// Runner performs one readiness run: collect, evaluate, then archive and
// notify when those are configured.
type Runner struct {
	collector collector.Controller
	evaluator *readiness.Evaluator
	settings  readiness.Settings
	history   history.Store
	notifier  notify.Notifier
	now       func() time.Time
}

type RunnerOption func(*Runner)

func WithHistory(store history.Store) RunnerOption {
	return func(r *Runner) {
		r.history = store
	}
}

func WithNotifier(n notify.Notifier) RunnerOption {
	return func(r *Runner) {
		r.notifier = n
	}
}

func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

func NewRunner(
	ctrl collector.Controller,
	evaluator *readiness.Evaluator,
	settings readiness.Settings,
	opts ...RunnerOption,
) *Runner {
	r := &Runner{
		collector: ctrl,
		evaluator: evaluator,
		settings:  settings,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Settings() readiness.Settings {
	return r.settings
}

// RunOnce returns an error only when no report could be built. Archive and
// notification failures are logged.
func (r *Runner) RunOnce(ctx context.Context) (RunResult, error) {
	logger := zerolog.Ctx(ctx)

	input := r.collector.CollectAll(ctx)
	report, err := r.evaluator.Evaluate(input, r.settings, r.now().UTC())
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to evaluate readiness: %w", err)
	}

	logger.Info().
		Str("report_id", report.ID).
		Str("verdict", string(report.Verdict)).
		Int("critical", report.CriticalCount).
		Int("warnings", report.WarningCount).
		Msg("readiness evaluated")

	if r.history != nil {
		if err := r.history.Add(ctx, report); err != nil {
			logger.Error().Err(err).Str("report_id", report.ID).Msg("failed to archive report")
		}
	}
	if r.notifier != nil {
		if err := r.notifier.Notify(ctx, report); err != nil {
			logger.Error().Err(err).Str("report_id", report.ID).Msg("failed to notify")
		}
	}

	return RunResult{Report: report, Input: input}, nil
}
