package readiness

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

var evalNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func evalSettings() Settings {
	return Settings{
		PrimaryRegion: "us-east-1",
		DRRegion:      "us-west-2",
		Thresholds:    domain.Thresholds{RPOMinutes: 60, ReplicaLagSeconds: 60},
	}
}

func ago(d time.Duration) *time.Time {
	ts := evalNow.Add(-d)
	return &ts
}

func fixedID() Option {
	return WithIDGenerator(func() string { return "run-1" })
}

// healthyInput has one clean fact per check, so it evaluates to PASS.
func healthyInput() Input {
	return Input{
		domain.CheckVolumes: {Facts: []domain.FactResult{domain.FactOK(domain.ResourceFact{
			Type: domain.ResourceTypeVolume, ID: "vol-1", Artifact: "snap-1",
			Timestamp: ago(10 * time.Minute), ReplicaRegions: []string{"us-west-2"},
		})}},
		domain.CheckDatabases: {Facts: []domain.FactResult{
			domain.FactOK(domain.ResourceFact{
				Type: domain.ResourceTypeDatabaseInstance, ID: "orders", Artifact: "rds:orders-1",
				Timestamp: ago(20 * time.Minute), ReplicaRegions: []string{"us-west-2"},
			}),
			domain.FactOK(domain.ResourceFact{
				Type: domain.ResourceTypeDatabaseReplica, ID: "orders-dr", Parent: "orders", State: "available",
			}),
		}},
		domain.CheckBuckets: {Facts: []domain.FactResult{domain.FactOK(domain.ResourceFact{
			Type: domain.ResourceTypeBucket, ID: "assets", Artifact: "s3-replication",
			State: domain.StateRoleFound, ReplicaRegions: []string{"us-west-2"},
		})}},
		domain.CheckTables: {Facts: []domain.FactResult{domain.FactOK(domain.ResourceFact{
			Type: domain.ResourceTypeTable, ID: "sessions", ReplicaRegions: []string{"us-east-1", "us-west-2"},
			Replicas: []domain.ReplicaStatus{{Region: "us-east-1", Status: "ACTIVE"}, {Region: "us-west-2", Status: "ACTIVE"}},
		})}},
		domain.CheckBackups: {Facts: []domain.FactResult{domain.FactOK(domain.ResourceFact{
			Type: domain.ResourceTypeBackupJob, ID: "job-1", State: "COMPLETED",
		})}},
		domain.CheckAlarms: {Facts: []domain.FactResult{domain.FactOK(domain.ResourceFact{
			Type: domain.ResourceTypeAlarm, ID: "dr-health", State: "OK",
		})}},
	}
}

func TestEvaluate_Healthy(t *testing.T) {
	report, err := NewEvaluator(fixedID()).Evaluate(healthyInput(), evalSettings(), evalNow)
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictPass, report.Verdict)
	assert.True(t, report.Ready())
	assert.Empty(t, report.Issues)
	assert.Equal(t, "run-1", report.ID)
	assert.Equal(t, evalNow, report.GeneratedAt)
	assert.Equal(t, "us-east-1", report.PrimaryRegion)
}

func TestEvaluate_EmptyInput(t *testing.T) {
	report, err := NewEvaluator(fixedID()).Evaluate(Input{}, evalSettings(), evalNow)
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictWarning, report.Verdict)
	assert.Equal(t, 0, report.CriticalCount)
	assert.Equal(t, 6, report.WarningCount)
	require.Len(t, report.Issues, 6)
	for i, check := range domain.CheckOrder {
		assert.Equal(t, check, report.Issues[i].Check)
	}
}

func TestEvaluate_StaleVolumeSnapshot(t *testing.T) {
	input := healthyInput()
	input[domain.CheckVolumes] = CheckInput{Facts: []domain.FactResult{domain.FactOK(domain.ResourceFact{
		Type: domain.ResourceTypeVolume, ID: "vol-1", Artifact: "snap-1",
		Timestamp: ago(90 * time.Minute), ReplicaRegions: []string{"us-west-2"},
	})}}

	report, err := NewEvaluator(fixedID()).Evaluate(input, evalSettings(), evalNow)
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictWarning, report.Verdict)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0].Message, "older than RPO target")
	assert.Equal(t, 0, report.CriticalCount)
}

func TestEvaluate_FailedDatabaseReplica(t *testing.T) {
	input := healthyInput()
	zero := 0.0
	input[domain.CheckDatabases] = CheckInput{Facts: []domain.FactResult{
		domain.FactOK(domain.ResourceFact{
			Type: domain.ResourceTypeDatabaseInstance, ID: "orders", Artifact: "rds:orders-1",
			Timestamp: ago(20 * time.Minute), ReplicaRegions: []string{"us-west-2"},
		}),
		domain.FactOK(domain.ResourceFact{
			Type: domain.ResourceTypeDatabaseReplica, ID: "orders-dr", Parent: "orders",
			State: "failed", LagSeconds: &zero,
		}),
	}}

	report, err := NewEvaluator(fixedID()).Evaluate(input, evalSettings(), evalNow)
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictFail, report.Verdict)
	require.Len(t, report.Critical, 1)
	assert.Contains(t, report.Critical[0].Message, "not available")
	assert.Equal(t, domain.CheckDatabases, report.Critical[0].Check)
}

func TestEvaluate_Alarms(t *testing.T) {
	t.Run("alarm", func(t *testing.T) {
		input := healthyInput()
		input[domain.CheckAlarms] = CheckInput{Facts: []domain.FactResult{domain.FactOK(domain.ResourceFact{
			Type: domain.ResourceTypeAlarm, ID: "dr-health", State: "ALARM",
		})}}

		report, err := NewEvaluator(fixedID()).Evaluate(input, evalSettings(), evalNow)
		require.NoError(t, err)
		assert.Equal(t, domain.VerdictFail, report.Verdict)
		assert.Equal(t, 1, report.CriticalCount)
		assert.Equal(t, 0, report.WarningCount)
	})

	t.Run("insufficient data", func(t *testing.T) {
		input := healthyInput()
		input[domain.CheckAlarms] = CheckInput{Facts: []domain.FactResult{domain.FactOK(domain.ResourceFact{
			Type: domain.ResourceTypeAlarm, ID: "dr-health", State: "INSUFFICIENT_DATA",
		})}}

		report, err := NewEvaluator(fixedID()).Evaluate(input, evalSettings(), evalNow)
		require.NoError(t, err)
		assert.Equal(t, domain.VerdictPass, report.Verdict)
		assert.Empty(t, report.Issues)
	})
}

func TestEvaluate_UnsupportedFactTypeFails(t *testing.T) {
	input := healthyInput()
	input[domain.CheckAlarms] = CheckInput{Facts: []domain.FactResult{
		domain.FactOK(domain.ResourceFact{Type: domain.ResourceTypeAlarm, ID: "dr-lag", State: "OK"}),
		domain.FactOK(domain.ResourceFact{Type: "alarm", ID: "dr-health", State: "ALARM"}),
	}}

	report, err := NewEvaluator(fixedID()).Evaluate(input, evalSettings(), evalNow)
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictFail, report.Verdict)
	require.Len(t, report.Critical, 1)
	assert.Equal(t, "dr-health", report.Critical[0].ResourceID)
}

func TestEvaluate_FetchFailure(t *testing.T) {
	input := healthyInput()
	input[domain.CheckTables] = CheckInput{Err: errors.New("AccessDeniedException")}

	report, err := NewEvaluator(fixedID()).Evaluate(input, evalSettings(), evalNow)
	require.NoError(t, err)

	require.Len(t, report.Issues, 1)
	assert.Equal(t, domain.CheckTables, report.Issues[0].Check)
	assert.Equal(t, "DynamoDB table data not available: AccessDeniedException", report.Issues[0].Message)
	assert.Equal(t, domain.VerdictFail, report.Verdict)
}

func TestEvaluate_Deterministic(t *testing.T) {
	input := Input{
		domain.CheckVolumes: {Facts: []domain.FactResult{
			domain.FactOK(domain.ResourceFact{Type: domain.ResourceTypeVolume, ID: "vol-1", Timestamp: ago(2 * time.Hour)}),
			domain.FactErr(domain.ResourceTypeVolume, "vol-2", errors.New("throttled")),
		}},
		domain.CheckBackups: {Facts: []domain.FactResult{
			domain.FactOK(domain.ResourceFact{Type: domain.ResourceTypeBackupJob, ID: "job-1", State: "FAILED"}),
			domain.FactOK(domain.ResourceFact{Type: domain.ResourceTypeBackupJob, ID: "job-2", State: "ABORTED"}),
		}},
		domain.CheckAlarms: {Err: errors.New("no credentials")},
	}

	sequential := evalSettings()
	concurrent := evalSettings()
	concurrent.Concurrent = true

	first, err := NewEvaluator(fixedID()).Evaluate(input, sequential, evalNow)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		settings := sequential
		if i%2 == 1 {
			settings = concurrent
		}
		again, err := NewEvaluator(fixedID()).Evaluate(input, settings, evalNow)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEvaluate_GeneratesReportIDs(t *testing.T) {
	e := NewEvaluator()
	a, err := e.Evaluate(Input{}, evalSettings(), evalNow)
	require.NoError(t, err)
	b, err := e.Evaluate(Input{}, evalSettings(), evalNow)
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
