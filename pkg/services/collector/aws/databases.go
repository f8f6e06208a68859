package aws

import (
	"context"
	"fmt"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/rs/zerolog"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

const (
	replicaLagWindow = time.Hour
	replicaLagPeriod = 300 // seconds
)

type RDSAPI interface {
	DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
	DescribeDBSnapshots(ctx context.Context, params *rds.DescribeDBSnapshotsInput, optFns ...func(*rds.Options)) (*rds.DescribeDBSnapshotsOutput, error)
}

type MetricsAPI interface {
	GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
}

type databaseCollector struct {
	client   RDSAPI
	drClient RDSAPI
	metrics  MetricsAPI
	drRegion string
	now      func() time.Time
}

// NewDatabaseCollector reads replica lag from CloudWatch in the DR region,
// where the replicas live.
func NewDatabaseCollector(cfg, drCfg awssdk.Config) *databaseCollector {
	return newDatabaseCollector(rds.NewFromConfig(cfg), rds.NewFromConfig(drCfg), cloudwatch.NewFromConfig(drCfg), drCfg.Region)
}

func newDatabaseCollector(client, drClient RDSAPI, metrics MetricsAPI, drRegion string) *databaseCollector {
	return &databaseCollector{
		client:   client,
		drClient: drClient,
		metrics:  metrics,
		drRegion: drRegion,
		now:      time.Now,
	}
}

func (c *databaseCollector) GetCheck() domain.CheckName {
	return domain.CheckDatabases
}

func (c *databaseCollector) Collect(ctx context.Context) ([]domain.FactResult, error) {
	var instances []types.DBInstance
	var marker *string
	for {
		resp, err := c.client.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{Marker: marker})
		if err != nil {
			return nil, fmt.Errorf("failed to describe RDS instances: %w", err)
		}
		instances = append(instances, resp.DBInstances...)
		if awssdk.ToString(resp.Marker) == "" {
			break
		}
		marker = resp.Marker
	}

	var facts []domain.FactResult
	for _, db := range instances {
		// same-region replicas are covered through their primary
		if db.ReadReplicaSourceDBInstanceIdentifier != nil {
			continue
		}
		dbID := awssdk.ToString(db.DBInstanceIdentifier)

		facts = append(facts, c.instanceFact(ctx, dbID))
		for _, replicaRef := range db.ReadReplicaDBInstanceIdentifiers {
			facts = append(facts, c.replicaFact(ctx, dbID, replicaRef))
		}
	}
	return facts, nil
}

func (c *databaseCollector) instanceFact(ctx context.Context, dbID string) domain.FactResult {
	fact := domain.ResourceFact{
		Type: domain.ResourceTypeDatabaseInstance,
		ID:   dbID,
	}

	resp, err := c.client.DescribeDBSnapshots(ctx, &rds.DescribeDBSnapshotsInput{
		DBInstanceIdentifier: awssdk.String(dbID),
	})
	if err != nil {
		return domain.FactErr(domain.ResourceTypeDatabaseInstance, dbID, fmt.Errorf("failed to describe DB snapshots: %w", err))
	}

	latest := latestDBSnapshot(resp.DBSnapshots)
	if latest == nil {
		return domain.FactOK(fact)
	}
	fact.Artifact = awssdk.ToString(latest.DBSnapshotIdentifier)
	fact.Timestamp = latest.SnapshotCreateTime
	fact.State = awssdk.ToString(latest.Status)

	drResp, err := c.drClient.DescribeDBSnapshots(ctx, &rds.DescribeDBSnapshotsInput{
		Filters: []types.Filter{
			{Name: awssdk.String("db-instance-id"), Values: []string{dbID}},
		},
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("db", dbID).Msg("could not verify DR snapshot copy")
		fact.State = domain.StateCopyUnverified
		return domain.FactOK(fact)
	}
	if len(drResp.DBSnapshots) > 0 {
		fact.ReplicaRegions = []string{c.drRegion}
	}
	return domain.FactOK(fact)
}

func (c *databaseCollector) replicaFact(ctx context.Context, parent, replicaRef string) domain.FactResult {
	replicaID := replicaIdentifier(replicaRef)
	fact := domain.ResourceFact{
		Type:   domain.ResourceTypeDatabaseReplica,
		ID:     replicaID,
		Parent: parent,
	}

	resp, err := c.drClient.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: awssdk.String(replicaID),
	})
	if err != nil {
		return domain.FactResult{Fact: fact, Err: err}
	}
	if len(resp.DBInstances) == 0 {
		return domain.FactResult{Fact: fact, Err: fmt.Errorf("replica not found in %s", c.drRegion)}
	}

	replica := resp.DBInstances[0]
	fact.State = awssdk.ToString(replica.DBInstanceStatus)
	fact.ReplicaRegions = []string{c.drRegion}

	lagSeconds, err := c.replicaLag(ctx, replicaID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("replica", replicaID).Msg("could not retrieve replica lag")
	}
	fact.LagSeconds = lagSeconds
	return domain.FactOK(fact)
}

// replicaLag returns the average ReplicaLag of the most recent datapoint in
// the last hour, or nil when there is no data.
func (c *databaseCollector) replicaLag(ctx context.Context, replicaID string) (*float64, error) {
	end := c.now().UTC()
	resp, err := c.metrics.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  awssdk.String("AWS/RDS"),
		MetricName: awssdk.String("ReplicaLag"),
		Dimensions: []cwtypes.Dimension{
			{Name: awssdk.String("DBInstanceIdentifier"), Value: awssdk.String(replicaID)},
		},
		StartTime:  awssdk.Time(end.Add(-replicaLagWindow)),
		EndTime:    awssdk.Time(end),
		Period:     awssdk.Int32(replicaLagPeriod),
		Statistics: []cwtypes.Statistic{cwtypes.StatisticAverage},
	})
	if err != nil {
		return nil, err
	}

	var latest *cwtypes.Datapoint
	for i := range resp.Datapoints {
		dp := &resp.Datapoints[i]
		if dp.Timestamp == nil || dp.Average == nil {
			continue
		}
		if latest == nil || dp.Timestamp.After(*latest.Timestamp) {
			latest = dp
		}
	}
	if latest == nil {
		return nil, nil
	}
	return latest.Average, nil
}

// replicaIdentifier extracts the instance identifier from a replica ARN.
func replicaIdentifier(ref string) string {
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func latestDBSnapshot(snapshots []types.DBSnapshot) *types.DBSnapshot {
	var latest *types.DBSnapshot
	for i := range snapshots {
		s := &snapshots[i]
		if s.SnapshotCreateTime == nil {
			continue
		}
		if latest == nil || s.SnapshotCreateTime.After(*latest.SnapshotCreateTime) {
			latest = s
		}
	}
	if latest == nil && len(snapshots) > 0 {
		return &snapshots[0]
	}
	return latest
}
