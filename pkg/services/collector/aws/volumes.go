package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

type EC2API interface {
	DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
	DescribeSnapshots(ctx context.Context, params *ec2.DescribeSnapshotsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error)
}

type volumeCollector struct {
	client   EC2API
	drClient EC2API
	drRegion string
}

func NewVolumeCollector(cfg, drCfg awssdk.Config) *volumeCollector {
	return newVolumeCollector(ec2.NewFromConfig(cfg), ec2.NewFromConfig(drCfg), drCfg.Region)
}

func newVolumeCollector(client, drClient EC2API, drRegion string) *volumeCollector {
	return &volumeCollector{
		client:   client,
		drClient: drClient,
		drRegion: drRegion,
	}
}

func (c *volumeCollector) GetCheck() domain.CheckName {
	return domain.CheckVolumes
}

// Collect reports the latest DR tagged snapshot of every volume. Volumes
// without such a snapshot are not reported.
func (c *volumeCollector) Collect(ctx context.Context) ([]domain.FactResult, error) {
	var volumes []types.Volume
	var token *string
	for {
		resp, err := c.client.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{NextToken: token})
		if err != nil {
			return nil, fmt.Errorf("failed to describe EC2 volumes: %w", err)
		}
		volumes = append(volumes, resp.Volumes...)
		if awssdk.ToString(resp.NextToken) == "" {
			break
		}
		token = resp.NextToken
	}

	var facts []domain.FactResult
	for _, volume := range volumes {
		volumeID := awssdk.ToString(volume.VolumeId)

		resp, err := c.client.DescribeSnapshots(ctx, &ec2.DescribeSnapshotsInput{
			Filters: []types.Filter{
				{Name: awssdk.String("volume-id"), Values: []string{volumeID}},
				{Name: awssdk.String("tag:DR"), Values: []string{"true"}},
			},
			OwnerIds: []string{"self"},
		})
		if err != nil {
			facts = append(facts, domain.FactErr(domain.ResourceTypeVolume, volumeID,
				fmt.Errorf("failed to describe snapshots: %w", err)))
			continue
		}

		latest := latestSnapshot(resp.Snapshots)
		if latest == nil {
			continue
		}

		fact := domain.ResourceFact{
			Type:      domain.ResourceTypeVolume,
			ID:        volumeID,
			Artifact:  awssdk.ToString(latest.SnapshotId),
			Timestamp: latest.StartTime,
			State:     string(latest.State),
		}

		replicated, err := c.hasDRCopy(ctx, fact.Artifact)
		if err != nil {
			facts = append(facts, domain.FactErr(domain.ResourceTypeVolume, volumeID,
				fmt.Errorf("could not verify replication status: %w", err)))
			continue
		}
		if replicated {
			fact.ReplicaRegions = []string{c.drRegion}
		}
		facts = append(facts, domain.FactOK(fact))
	}
	return facts, nil
}

// hasDRCopy looks for copies of snapshotID in the DR region. Copies carry the
// source snapshot in the SourceSnapshotId tag.
func (c *volumeCollector) hasDRCopy(ctx context.Context, snapshotID string) (bool, error) {
	resp, err := c.drClient.DescribeSnapshots(ctx, &ec2.DescribeSnapshotsInput{
		Filters: []types.Filter{
			{Name: awssdk.String("tag:SourceSnapshotId"), Values: []string{snapshotID}},
		},
		OwnerIds: []string{"self"},
	})
	if err != nil {
		return false, err
	}
	return len(resp.Snapshots) > 0, nil
}

func latestSnapshot(snapshots []types.Snapshot) *types.Snapshot {
	var latest *types.Snapshot
	for i := range snapshots {
		s := &snapshots[i]
		if s.StartTime == nil {
			continue
		}
		if latest == nil || s.StartTime.After(*latest.StartTime) {
			latest = s
		}
	}
	if latest == nil && len(snapshots) > 0 {
		return &snapshots[0]
	}
	return latest
}
