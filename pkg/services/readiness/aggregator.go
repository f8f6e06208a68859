package readiness

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

var ErrInvalidTransition = errors.New("invalid aggregator transition")

type aggregatorState int

const (
	stateCollecting aggregatorState = iota
	stateClassified
	stateFinalized
)

func (s aggregatorState) String() string {
	switch s {
	case stateCollecting:
		return "collecting"
	case stateClassified:
		return "classified"
	default:
		return "finalized"
	}
}

// Metadata describes the run a report belongs to.
type Metadata struct {
	ID            string
	GeneratedAt   time.Time
	PrimaryRegion string
	DRRegion      string
	Thresholds    domain.Thresholds
}

// Aggregator merges the issues of all checks into a report. It moves strictly
// from collecting to classified to finalized.
type Aggregator struct {
	state    aggregatorState
	issues   []domain.Issue
	critical []domain.Issue
	warnings []domain.Issue
}

func NewAggregator() *Aggregator {
	return &Aggregator{state: stateCollecting}
}

// Add appends issues in the order they are supplied.
func (a *Aggregator) Add(issues ...domain.Issue) error {
	if a.state != stateCollecting {
		return fmt.Errorf("%w: add while %s", ErrInvalidTransition, a.state)
	}
	a.issues = append(a.issues, issues...)
	return nil
}

// Classify partitions the collected issues by severity, keeping their order.
func (a *Aggregator) Classify() error {
	if a.state != stateCollecting {
		return fmt.Errorf("%w: classify while %s", ErrInvalidTransition, a.state)
	}
	for _, issue := range a.issues {
		if Classify(issue) == domain.SeverityCritical {
			a.critical = append(a.critical, issue)
		} else {
			a.warnings = append(a.warnings, issue)
		}
	}
	a.state = stateClassified
	return nil
}

// Finalize computes the verdict and returns the report. The report does not
// share memory with the aggregator.
func (a *Aggregator) Finalize(meta Metadata) (domain.Report, error) {
	if a.state != stateClassified {
		return domain.Report{}, fmt.Errorf("%w: finalize while %s", ErrInvalidTransition, a.state)
	}
	a.state = stateFinalized

	verdict := domain.VerdictPass
	switch {
	case len(a.critical) > 0:
		verdict = domain.VerdictFail
	case len(a.warnings) > 0:
		verdict = domain.VerdictWarning
	}

	return domain.Report{
		ID:            meta.ID,
		GeneratedAt:   meta.GeneratedAt,
		PrimaryRegion: meta.PrimaryRegion,
		DRRegion:      meta.DRRegion,
		Thresholds:    meta.Thresholds,
		Issues:        slices.Clone(a.issues),
		Critical:      slices.Clone(a.critical),
		Warnings:      slices.Clone(a.warnings),
		CriticalCount: len(a.critical),
		WarningCount:  len(a.warnings),
		Verdict:       verdict,
	}, nil
}
