package domain

import "time"

type Verdict string

const (
	VerdictPass    Verdict = "PASS"
	VerdictWarning Verdict = "WARNING"
	VerdictFail    Verdict = "FAIL"
)

// Thresholds are the configured recovery objectives a run is evaluated against.
type Thresholds struct {
	RPOMinutes        int
	ReplicaLagSeconds int
}

// Report is the outcome of one readiness evaluation. It is built once by the
// aggregator and not modified afterwards.
type Report struct {
	ID            string
	GeneratedAt   time.Time
	PrimaryRegion string
	DRRegion      string
	Thresholds    Thresholds

	// Issues in check order, then discovery order within a check.
	Issues   []Issue
	Critical []Issue
	Warnings []Issue

	CriticalCount int
	WarningCount  int
	Verdict       Verdict
}

func (r Report) Ready() bool {
	return r.Verdict == VerdictPass
}

// IssuesFor returns the issues reported by a single check, in report order.
func (r Report) IssuesFor(check CheckName) []Issue {
	var res []Issue
	for _, issue := range r.Issues {
		if issue.Check == check {
			res = append(res, issue)
		}
	}
	return res
}
