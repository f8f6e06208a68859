package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/backup"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/mock"
)

type mockEC2 struct{ mock.Mock }

func (m *mockEC2) DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, _ ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*ec2.DescribeVolumesOutput)
	return out, args.Error(1)
}

func (m *mockEC2) DescribeSnapshots(ctx context.Context, params *ec2.DescribeSnapshotsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*ec2.DescribeSnapshotsOutput)
	return out, args.Error(1)
}

type mockRDS struct{ mock.Mock }

func (m *mockRDS) DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, _ ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*rds.DescribeDBInstancesOutput)
	return out, args.Error(1)
}

func (m *mockRDS) DescribeDBSnapshots(ctx context.Context, params *rds.DescribeDBSnapshotsInput, _ ...func(*rds.Options)) (*rds.DescribeDBSnapshotsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*rds.DescribeDBSnapshotsOutput)
	return out, args.Error(1)
}

type mockCloudWatch struct{ mock.Mock }

func (m *mockCloudWatch) GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*cloudwatch.GetMetricStatisticsOutput)
	return out, args.Error(1)
}

func (m *mockCloudWatch) DescribeAlarms(ctx context.Context, params *cloudwatch.DescribeAlarmsInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.DescribeAlarmsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*cloudwatch.DescribeAlarmsOutput)
	return out, args.Error(1)
}

type mockS3 struct{ mock.Mock }

func (m *mockS3) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.ListBucketsOutput)
	return out, args.Error(1)
}

func (m *mockS3) GetBucketReplication(ctx context.Context, params *s3.GetBucketReplicationInput, _ ...func(*s3.Options)) (*s3.GetBucketReplicationOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.GetBucketReplicationOutput)
	return out, args.Error(1)
}

func (m *mockS3) GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, _ ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.GetBucketLocationOutput)
	return out, args.Error(1)
}

type mockIAM struct{ mock.Mock }

func (m *mockIAM) GetRole(ctx context.Context, params *iam.GetRoleInput, _ ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*iam.GetRoleOutput)
	return out, args.Error(1)
}

type mockDynamoDB struct{ mock.Mock }

func (m *mockDynamoDB) ListGlobalTables(ctx context.Context, params *dynamodb.ListGlobalTablesInput, _ ...func(*dynamodb.Options)) (*dynamodb.ListGlobalTablesOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.ListGlobalTablesOutput)
	return out, args.Error(1)
}

func (m *mockDynamoDB) ListTables(ctx context.Context, params *dynamodb.ListTablesInput, _ ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.ListTablesOutput)
	return out, args.Error(1)
}

func (m *mockDynamoDB) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.DescribeTableOutput)
	return out, args.Error(1)
}

type mockBackup struct{ mock.Mock }

func (m *mockBackup) ListBackupJobs(ctx context.Context, params *backup.ListBackupJobsInput, _ ...func(*backup.Options)) (*backup.ListBackupJobsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*backup.ListBackupJobsOutput)
	return out, args.Error(1)
}
