package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/backup"
	"github.com/aws/aws-sdk-go-v2/service/backup/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

func TestBackupCollector_Collect(t *testing.T) {
	created := time.Date(2025, 9, 1, 2, 0, 0, 0, time.UTC)
	completed := created.Add(45 * time.Minute)

	client := new(mockBackup)
	client.On("ListBackupJobs", mock.Anything, &backup.ListBackupJobsInput{MaxResults: awssdk.Int32(50)}).
		Return(&backup.ListBackupJobsOutput{
			BackupJobs: []types.BackupJob{
				{
					BackupJobId: awssdk.String("job-1"), State: types.BackupJobStateCompleted, CreationDate: &created,
					BackupType: awssdk.String("SNAPSHOT"), CompletionDate: &completed,
				},
				{BackupJobId: awssdk.String("job-2"), State: types.BackupJobStateFailed, ResourceArn: awssdk.String("arn:aws:ec2:us-east-1:123456789012:volume/vol-1")},
			},
			NextToken: awssdk.String("ignored"),
		}, nil)

	c := newBackupCollector(client)
	assert.Equal(t, domain.CheckBackups, c.GetCheck())

	facts, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, facts, 2)
	assert.Equal(t, "job-1", facts[0].Fact.ID)
	assert.Equal(t, "COMPLETED", facts[0].Fact.State)
	assert.Equal(t, created, *facts[0].Fact.Timestamp)
	assert.Equal(t, []domain.Detail{
		{Name: "Backup Type", Value: "SNAPSHOT"},
		{Name: "End Time", Value: "2025-09-01 02:45:00 UTC"},
	}, facts[0].Fact.Details)
	assert.Empty(t, facts[1].Fact.Details)
	assert.Equal(t, domain.StateFailed, facts[1].Fact.State)
	assert.Equal(t, "arn:aws:ec2:us-east-1:123456789012:volume/vol-1", facts[1].Fact.Artifact)
	client.AssertNumberOfCalls(t, "ListBackupJobs", 1)
}

func TestBackupCollector_ListFails(t *testing.T) {
	client := new(mockBackup)
	client.On("ListBackupJobs", mock.Anything, mock.Anything).Return(nil, errors.New("not subscribed"))

	_, err := newBackupCollector(client).Collect(context.Background())
	assert.ErrorContains(t, err, "not subscribed")
}
