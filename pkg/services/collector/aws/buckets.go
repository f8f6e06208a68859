package aws

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

const replicationNotFoundCode = "ReplicationConfigurationNotFoundError"

type S3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	GetBucketReplication(ctx context.Context, params *s3.GetBucketReplicationInput, optFns ...func(*s3.Options)) (*s3.GetBucketReplicationOutput, error)
	GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
}

type IAMAPI interface {
	GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
}

type bucketCollector struct {
	client S3API
	iam    IAMAPI
}

func NewBucketCollector(cfg awssdk.Config) *bucketCollector {
	return newBucketCollector(s3.NewFromConfig(cfg), iam.NewFromConfig(cfg))
}

func newBucketCollector(client S3API, iamClient IAMAPI) *bucketCollector {
	return &bucketCollector{client: client, iam: iamClient}
}

func (c *bucketCollector) GetCheck() domain.CheckName {
	return domain.CheckBuckets
}

// Collect reports buckets with a replication configuration. Buckets without
// one are skipped.
func (c *bucketCollector) Collect(ctx context.Context) ([]domain.FactResult, error) {
	resp, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list S3 buckets: %w", err)
	}

	var facts []domain.FactResult
	for _, bucket := range resp.Buckets {
		name := awssdk.ToString(bucket.Name)

		replication, err := c.client.GetBucketReplication(ctx, &s3.GetBucketReplicationInput{Bucket: awssdk.String(name)})
		if err != nil {
			var apiErr smithy.APIError
			if errors.As(err, &apiErr) && apiErr.ErrorCode() == replicationNotFoundCode {
				continue
			}
			facts = append(facts, domain.FactErr(domain.ResourceTypeBucket, name, err))
			continue
		}
		if replication.ReplicationConfiguration == nil {
			continue
		}

		fact := domain.ResourceFact{
			Type: domain.ResourceTypeBucket,
			ID:   name,
		}

		regions, destinations, err := c.destinations(ctx, replication.ReplicationConfiguration.Rules)
		if err != nil {
			facts = append(facts, domain.FactErr(domain.ResourceTypeBucket, name, err))
			continue
		}
		fact.ReplicaRegions = regions
		for _, dest := range destinations {
			fact.Details = append(fact.Details, domain.Detail{Name: "Destination Bucket", Value: dest})
		}

		fact.Artifact = roleName(awssdk.ToString(replication.ReplicationConfiguration.Role))
		fact.State = c.roleState(ctx, fact.Artifact)

		facts = append(facts, domain.FactOK(fact))
	}
	return facts, nil
}

// destinations resolves the distinct regions and bucket names the rules
// replicate to.
func (c *bucketCollector) destinations(ctx context.Context, rules []s3types.ReplicationRule) ([]string, []string, error) {
	var regions, buckets []string
	for _, rule := range rules {
		if rule.Destination == nil {
			continue
		}
		dest := bucketFromARN(awssdk.ToString(rule.Destination.Bucket))
		if dest == "" || slices.Contains(buckets, dest) {
			continue
		}
		loc, err := c.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: awssdk.String(dest)})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve region of destination bucket %s: %w", dest, err)
		}
		buckets = append(buckets, dest)
		region := normalizeLocation(string(loc.LocationConstraint))
		if !slices.Contains(regions, region) {
			regions = append(regions, region)
		}
	}
	return regions, buckets, nil
}

func (c *bucketCollector) roleState(ctx context.Context, name string) string {
	if name == "" {
		return domain.StateRoleMissing
	}
	_, err := c.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: awssdk.String(name)})
	if err == nil {
		return domain.StateRoleFound
	}
	var notFound *iamtypes.NoSuchEntityException
	if errors.As(err, &notFound) {
		return domain.StateRoleMissing
	}
	return domain.StateRoleUnverified
}

// bucketFromARN turns arn:aws:s3:::name into name.
func bucketFromARN(arn string) string {
	if i := strings.LastIndex(arn, ":"); i >= 0 {
		return arn[i+1:]
	}
	return arn
}

func roleName(arn string) string {
	if i := strings.LastIndex(arn, "/"); i >= 0 {
		return arn[i+1:]
	}
	return arn
}

// normalizeLocation maps legacy S3 location constraints to region names.
func normalizeLocation(constraint string) string {
	switch constraint {
	case "":
		return "us-east-1"
	case "EU":
		return "eu-west-1"
	default:
		return constraint
	}
}
