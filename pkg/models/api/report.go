package api

import "time"

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

type Issue struct {
	Check      string   `json:"check" yaml:"check"`
	ResourceID string   `json:"resource_id,omitempty" yaml:"resource_id,omitempty"`
	Message    string   `json:"message" yaml:"message"`
	Severity   Severity `json:"severity" yaml:"severity"`
}

type Thresholds struct {
	RPOMinutes        int `json:"rpo_minutes" yaml:"rpo_minutes"`
	ReplicaLagSeconds int `json:"replica_lag_threshold_seconds" yaml:"replica_lag_threshold_seconds"`
}

type Summary struct {
	CriticalCount int    `json:"critical_count" yaml:"critical_count"`
	WarningCount  int    `json:"warning_count" yaml:"warning_count"`
	Verdict       string `json:"verdict" yaml:"verdict"`
	Ready         bool   `json:"ready" yaml:"ready"`
}

type Report struct {
	ID            string     `json:"id" yaml:"id"`
	GeneratedAt   time.Time  `json:"generated_at" yaml:"generated_at"`
	PrimaryRegion string     `json:"primary_region" yaml:"primary_region"`
	DRRegion      string     `json:"dr_region" yaml:"dr_region"`
	Thresholds    Thresholds `json:"thresholds" yaml:"thresholds"`
	Summary       Summary    `json:"summary" yaml:"summary"`

	// Issues lists every issue with its severity, in check order and then
	// discovery order. Critical and Warnings partition it.
	Issues   []Issue `json:"issues" yaml:"issues"`
	Critical []Issue `json:"critical" yaml:"critical"`
	Warnings []Issue `json:"warnings" yaml:"warnings"`
}

type ReportsResponse struct {
	Reports []Report `json:"reports" yaml:"reports"`
}
