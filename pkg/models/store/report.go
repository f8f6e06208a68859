package store

import "time"

type ReportRun struct {
	ID                string
	GeneratedAt       time.Time
	PrimaryRegion     string
	DRRegion          string
	RPOMinutes        int
	ReplicaLagSeconds int
	Verdict           string
	CriticalCount     int
	WarningCount      int
}

type ReportIssue struct {
	RunID      string
	Position   int
	Check      string
	ResourceID string
	Severity   string
	Message    string
}

type ReportRecord struct {
	Run    ReportRun
	Issues []ReportIssue
}
