package domain

type CheckName string

const (
	CheckVolumes   CheckName = "volumes"
	CheckDatabases CheckName = "databases"
	CheckBuckets   CheckName = "buckets"
	CheckTables    CheckName = "tables"
	CheckBackups   CheckName = "backups"
	CheckAlarms    CheckName = "alarms"
)

// CheckOrder is the fixed execution order of the readiness checks. Report
// ordering depends on it.
var CheckOrder = []CheckName{
	CheckVolumes,
	CheckDatabases,
	CheckBuckets,
	CheckTables,
	CheckBackups,
	CheckAlarms,
}

// Title is the human readable section name of a check.
func (c CheckName) Title() string {
	switch c {
	case CheckVolumes:
		return "EC2 Snapshot & Replication Status"
	case CheckDatabases:
		return "RDS DR Status"
	case CheckBuckets:
		return "S3 Cross-Region Replication Status"
	case CheckTables:
		return "DynamoDB Global Table Sync Status"
	case CheckBackups:
		return "AWS Backup Job Status"
	case CheckAlarms:
		return "CloudWatch DR Alarm States"
	default:
		return string(c)
	}
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Issue is a single DR readiness problem found by a check. Severity is not
// stored; it is derived from Message when the report is classified.
type Issue struct {
	Check      CheckName
	ResourceID string
	Message    string
}
