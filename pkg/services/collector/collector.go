package collector

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
	"github.com/de-tools/dr-readiness/pkg/services/readiness"
)

// Collector fetches the resource facts consumed by a single readiness check.
type Collector interface {
	GetCheck() domain.CheckName
	// Collect returns an error only when nothing could be fetched. Failures
	// for individual resources are returned as FactResult.Err.
	Collect(ctx context.Context) ([]domain.FactResult, error)
}

// Controller runs a fixed set of collectors and assembles the evaluation input.
type Controller interface {
	GetSupportedChecks() []domain.CheckName
	CollectAll(ctx context.Context) readiness.Input
}

type controller struct {
	collectors map[domain.CheckName]Collector
}

func NewController(collectors ...Collector) (Controller, error) {
	ctrl := &controller{
		collectors: make(map[domain.CheckName]Collector),
	}

	for _, c := range collectors {
		check := c.GetCheck()
		if _, exists := ctrl.collectors[check]; exists {
			return nil, fmt.Errorf("duplicate collector for check: %s", check)
		}
		ctrl.collectors[check] = c
	}

	if len(ctrl.collectors) == 0 {
		return nil, fmt.Errorf("at least one collector must be provided")
	}

	return ctrl, nil
}

func (c *controller) GetSupportedChecks() []domain.CheckName {
	checks := make([]domain.CheckName, 0, len(c.collectors))
	for _, check := range domain.CheckOrder {
		if _, ok := c.collectors[check]; ok {
			checks = append(checks, check)
		}
	}
	return checks
}

// CollectAll fetches every check's facts concurrently. A failing collector
// does not stop the others; its error is recorded in the input.
func (c *controller) CollectAll(ctx context.Context) readiness.Input {
	logger := zerolog.Ctx(ctx)
	checks := c.GetSupportedChecks()
	results := make([]readiness.CheckInput, len(checks))

	var g errgroup.Group
	for i, check := range checks {
		g.Go(func() error {
			facts, err := c.collectors[check].Collect(ctx)
			if err != nil {
				logger.Error().Err(err).Str("check", string(check)).Msg("failed to collect resource facts")
				results[i] = readiness.CheckInput{Err: err}
				return nil
			}
			logger.Debug().Str("check", string(check)).Int("facts", len(facts)).Msg("collected resource facts")
			results[i] = readiness.CheckInput{Facts: facts}
			return nil
		})
	}
	_ = g.Wait()

	input := make(readiness.Input, len(checks))
	for i, check := range checks {
		input[check] = results[i]
	}
	return input
}
