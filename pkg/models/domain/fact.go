package domain

import "time"

type ResourceType string

const (
	ResourceTypeVolume           ResourceType = "Volume"
	ResourceTypeDatabaseInstance ResourceType = "DatabaseInstance"
	ResourceTypeDatabaseReplica  ResourceType = "DatabaseReplica"
	ResourceTypeBucket           ResourceType = "Bucket"
	ResourceTypeTable            ResourceType = "Table"
	ResourceTypeBackupJob        ResourceType = "BackupJob"
	ResourceTypeAlarm            ResourceType = "Alarm"
)

// Known resource states compared by the readiness checks.
const (
	StateAvailable        = "available"         // RDS replica
	StateActive           = "ACTIVE"            // DynamoDB replica
	StateFailed           = "FAILED"            // AWS Backup job
	StateAborted          = "ABORTED"           // AWS Backup job
	StateAlarm            = "ALARM"             // CloudWatch alarm
	StateInsufficientData = "INSUFFICIENT_DATA" // CloudWatch alarm
	StateOK               = "OK"                // CloudWatch alarm

	// Replication role states for buckets.
	StateRoleFound      = "ROLE_FOUND"
	StateRoleMissing    = "ROLE_MISSING"
	StateRoleUnverified = "ROLE_UNVERIFIED"

	// StateCopyUnverified marks a DB snapshot whose DR region copy could not be looked up.
	StateCopyUnverified = "COPY_UNVERIFIED"
)

// ReplicaStatus is a single region replica of a table.
type ReplicaStatus struct {
	Region    string     `json:"region" yaml:"region"`
	Status    string     `json:"status" yaml:"status"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"` // informational
}

// Detail is a named, informational attribute of a resource shown in reports.
// Checks never read details.
type Detail struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// ResourceFact is a point-in-time observation of one resource's DR relevant state.
type ResourceFact struct {
	Type           ResourceType    `json:"type" yaml:"type"`
	ID             string          `json:"id" yaml:"id"`
	Timestamp      *time.Time      `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	State          string          `json:"state,omitempty" yaml:"state,omitempty"`
	ReplicaRegions []string        `json:"replica_regions,omitempty" yaml:"replica_regions,omitempty"`
	LagSeconds     *float64        `json:"lag_seconds,omitempty" yaml:"lag_seconds,omitempty"`
	Artifact       string          `json:"artifact,omitempty" yaml:"artifact,omitempty"` // snapshot id or replication role
	Parent         string          `json:"parent,omitempty" yaml:"parent,omitempty"`     // primary DB of a replica
	Replicas       []ReplicaStatus `json:"replicas,omitempty" yaml:"replicas,omitempty"`
	Details        []Detail        `json:"details,omitempty" yaml:"details,omitempty"`
}

// FactResult carries either a fact or the error that prevented observing it.
// Fact.Type and Fact.ID identify the resource in both cases.
type FactResult struct {
	Fact ResourceFact
	Err  error
}

func FactOK(f ResourceFact) FactResult {
	return FactResult{Fact: f}
}

func FactErr(t ResourceType, id string, err error) FactResult {
	return FactResult{Fact: ResourceFact{Type: t, ID: id}, Err: err}
}
