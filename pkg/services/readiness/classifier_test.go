package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		msg  string
		want domain.Severity
	}{
		{"Backup job job-1 failed", domain.SeverityCritical},
		{"Backup job job-1 FAILED", domain.SeverityCritical},
		{"RDS replica orders-dr is not available (status: failed)", domain.SeverityCritical},
		{"RDS replica orders-dr is NOT AVAILABLE", domain.SeverityCritical},
		{"Snapshot snap-1 not found in DR region us-west-2", domain.SeverityCritical},
		{"Replication role r for bucket b Not Found", domain.SeverityCritical},
		{"Snapshot for volume vol-1 is older than RPO target (60 minutes)", domain.SeverityWarning},
		{"RDS replica orders-dr lag (90s) exceeds threshold (60s)", domain.SeverityWarning},
		{"No EC2 DR snapshots found", domain.SeverityWarning},
		{"Backup job job-1 was aborted", domain.SeverityWarning},
		{"", domain.SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(domain.Issue{Message: tt.msg}))
		})
	}
}

func TestClassify_IndependentOfSourceCheck(t *testing.T) {
	msgs := []string{"Backup job j failed", "DynamoDB table t has no replicas"}
	for _, msg := range msgs {
		want := Classify(domain.Issue{Check: domain.CheckVolumes, Message: msg})
		for _, check := range domain.CheckOrder {
			assert.Equal(t, want, Classify(domain.Issue{Check: check, ResourceID: "x", Message: msg}))
		}
	}
}
