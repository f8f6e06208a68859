package checks

import (
	"fmt"
	"slices"
	"time"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

// Env is the evaluation context shared by all checks of one run.
type Env struct {
	DRRegion   string
	Thresholds domain.Thresholds
	Now        time.Time
}

// Func turns the facts of one resource domain into issues. Implementations
// must not modify facts and must evaluate every fact independently.
type Func func(facts []domain.FactResult, env Env) []domain.Issue

var registry = map[domain.CheckName]Func{
	domain.CheckVolumes:   Volumes,
	domain.CheckDatabases: Databases,
	domain.CheckBuckets:   Buckets,
	domain.CheckTables:    Tables,
	domain.CheckBackups:   Backups,
	domain.CheckAlarms:    Alarms,
}

// ForCheck returns the check implementation registered under name.
func ForCheck(name domain.CheckName) (Func, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown check: %s", name)
	}
	return fn, nil
}

func newIssue(check domain.CheckName, resourceID, format string, args ...any) domain.Issue {
	return domain.Issue{
		Check:      check,
		ResourceID: resourceID,
		Message:    fmt.Sprintf(format, args...),
	}
}

// ofType splits facts into those of the given types and one issue for every
// other fact. A fact of an unsupported type cannot be evaluated, so it is
// reported as unavailable instead of being dropped.
func ofType(check domain.CheckName, facts []domain.FactResult, types ...domain.ResourceType) ([]domain.FactResult, []domain.Issue) {
	res := make([]domain.FactResult, 0, len(facts))
	var unsupported []domain.Issue
	for _, f := range facts {
		if slices.Contains(types, f.Fact.Type) {
			res = append(res, f)
			continue
		}
		unsupported = append(unsupported, newIssue(check, f.Fact.ID,
			"Unsupported resource type %q for %s check: status of %s not available", f.Fact.Type, check, f.Fact.ID))
	}
	return res, unsupported
}
