package api

import "time"

type ReplicaStatus struct {
	Region    string     `json:"region" yaml:"region"`
	Status    string     `json:"status" yaml:"status"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

type Detail struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Fact is a resource observation. A non-empty Error marks a resource that
// could not be observed.
type Fact struct {
	Type           string          `json:"type" yaml:"type" validate:"required,oneof=Volume DatabaseInstance DatabaseReplica Bucket Table BackupJob Alarm"`
	ID             string          `json:"id" yaml:"id"`
	Timestamp      *time.Time      `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	State          string          `json:"state,omitempty" yaml:"state,omitempty"`
	ReplicaRegions []string        `json:"replica_regions,omitempty" yaml:"replica_regions,omitempty"`
	LagSeconds     *float64        `json:"lag_seconds,omitempty" yaml:"lag_seconds,omitempty"`
	Artifact       string          `json:"artifact,omitempty" yaml:"artifact,omitempty"`
	Parent         string          `json:"parent,omitempty" yaml:"parent,omitempty"`
	Replicas       []ReplicaStatus `json:"replicas,omitempty" yaml:"replicas,omitempty"`
	Details        []Detail        `json:"details,omitempty" yaml:"details,omitempty"`
	Error          string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// CheckFacts holds the facts of one check. A non-empty Error marks a check
// whose facts could not be fetched at all.
type CheckFacts struct {
	Facts []Fact `json:"facts" yaml:"facts" validate:"dive"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// EvaluateRequest is an offline evaluation input keyed by check name.
type EvaluateRequest struct {
	PrimaryRegion              string                `json:"primary_region" yaml:"primary_region"`
	DRRegion                   string                `json:"dr_region" yaml:"dr_region" validate:"required"`
	RPOMinutes                 int                   `json:"rpo_minutes" yaml:"rpo_minutes" validate:"gte=0"`
	ReplicaLagThresholdSeconds int                   `json:"replica_lag_threshold_seconds" yaml:"replica_lag_threshold_seconds" validate:"gte=0"`
	GeneratedAt                *time.Time            `json:"generated_at,omitempty" yaml:"generated_at,omitempty"`
	Checks                     map[string]CheckFacts `json:"checks" yaml:"checks" validate:"dive"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
