package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/backup"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

const maxBackupJobs = 50

type BackupAPI interface {
	ListBackupJobs(ctx context.Context, params *backup.ListBackupJobsInput, optFns ...func(*backup.Options)) (*backup.ListBackupJobsOutput, error)
}

type backupCollector struct {
	client BackupAPI
}

func NewBackupCollector(cfg awssdk.Config) *backupCollector {
	return newBackupCollector(backup.NewFromConfig(cfg))
}

func newBackupCollector(client BackupAPI) *backupCollector {
	return &backupCollector{client: client}
}

func (c *backupCollector) GetCheck() domain.CheckName {
	return domain.CheckBackups
}

// Collect reports the most recent backup jobs, one page only.
func (c *backupCollector) Collect(ctx context.Context) ([]domain.FactResult, error) {
	resp, err := c.client.ListBackupJobs(ctx, &backup.ListBackupJobsInput{
		MaxResults: awssdk.Int32(maxBackupJobs),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list backup jobs: %w", err)
	}

	facts := make([]domain.FactResult, 0, len(resp.BackupJobs))
	for _, job := range resp.BackupJobs {
		fact := domain.ResourceFact{
			Type:      domain.ResourceTypeBackupJob,
			ID:        awssdk.ToString(job.BackupJobId),
			Timestamp: job.CreationDate,
			State:     string(job.State),
			Artifact:  awssdk.ToString(job.ResourceArn),
		}
		if job.BackupType != nil {
			fact.Details = append(fact.Details, domain.Detail{Name: "Backup Type", Value: *job.BackupType})
		}
		if job.CompletionDate != nil {
			fact.Details = append(fact.Details, domain.Detail{
				Name:  "End Time",
				Value: job.CompletionDate.UTC().Format(detailTimeLayout),
			})
		}
		facts = append(facts, domain.FactOK(fact))
	}
	return facts, nil
}
