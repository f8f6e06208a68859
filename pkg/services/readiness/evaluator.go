package readiness

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
	"github.com/de-tools/dr-readiness/pkg/services/readiness/checks"
)

// CheckInput is what the fact collector could observe for one check. A
// non-nil Err means the facts could not be fetched at all.
type CheckInput struct {
	Facts []domain.FactResult
	Err   error
}

// Input holds the facts of every check. A check without an entry is
// evaluated with zero facts.
type Input map[domain.CheckName]CheckInput

type Settings struct {
	PrimaryRegion string
	DRRegion      string
	Thresholds    domain.Thresholds
	// Concurrent runs the checks in parallel. Report order is unaffected.
	Concurrent bool
}

var resourceLabels = map[domain.CheckName]string{
	domain.CheckVolumes:   "EC2 snapshot",
	domain.CheckDatabases: "RDS instance",
	domain.CheckBuckets:   "S3 replication",
	domain.CheckTables:    "DynamoDB table",
	domain.CheckBackups:   "AWS Backup job",
	domain.CheckAlarms:    "CloudWatch alarm",
}

// FetchFailureIssue is the synthetic issue standing in for a check whose
// facts could not be fetched.
func FetchFailureIssue(check domain.CheckName, err error) domain.Issue {
	label, ok := resourceLabels[check]
	if !ok {
		label = string(check)
	}
	return domain.Issue{
		Check:   check,
		Message: fmt.Sprintf("%s data not available: %v", label, err),
	}
}

type Evaluator struct {
	newID func() string
}

type Option func(*Evaluator)

// WithIDGenerator replaces the report ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Evaluator) {
		e.newID = fn
	}
}

func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs all checks against input and aggregates their issues. The
// result only depends on input, settings and now (apart from the report ID).
func (e *Evaluator) Evaluate(input Input, settings Settings, now time.Time) (domain.Report, error) {
	env := checks.Env{
		DRRegion:   settings.DRRegion,
		Thresholds: settings.Thresholds,
		Now:        now,
	}

	results := make([][]domain.Issue, len(domain.CheckOrder))
	run := func(i int, name domain.CheckName) error {
		in := input[name]
		if in.Err != nil {
			results[i] = []domain.Issue{FetchFailureIssue(name, in.Err)}
			return nil
		}
		fn, err := checks.ForCheck(name)
		if err != nil {
			return err
		}
		results[i] = fn(in.Facts, env)
		return nil
	}

	if settings.Concurrent {
		var g errgroup.Group
		for i, name := range domain.CheckOrder {
			g.Go(func() error { return run(i, name) })
		}
		if err := g.Wait(); err != nil {
			return domain.Report{}, err
		}
	} else {
		for i, name := range domain.CheckOrder {
			if err := run(i, name); err != nil {
				return domain.Report{}, err
			}
		}
	}

	agg := NewAggregator()
	for _, issues := range results {
		if err := agg.Add(issues...); err != nil {
			return domain.Report{}, err
		}
	}
	if err := agg.Classify(); err != nil {
		return domain.Report{}, err
	}
	return agg.Finalize(Metadata{
		ID:            e.newID(),
		GeneratedAt:   now,
		PrimaryRegion: settings.PrimaryRegion,
		DRRegion:      settings.DRRegion,
		Thresholds:    settings.Thresholds,
	})
}
