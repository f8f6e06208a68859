package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

const (
	DefaultRegion = "us-east-1" // Default region if not specified in AWS profile

	detailTimeLayout = "2006-01-02 15:04:05 UTC"
)

// LoadConfig loads the shared AWS configuration for profile. An empty region
// keeps the profile's region.
func LoadConfig(ctx context.Context, profile, region string) (*awssdk.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithDefaultRegion(DefaultRegion),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	// Test the credentials
	_, err = awsCfg.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("invalid AWS credentials for profile %q: %w", profile, err)
	}

	return &awsCfg, nil
}

// LoadConfigs returns the configurations for the primary and the DR region.
func LoadConfigs(ctx context.Context, profile, primaryRegion, drRegion string) (primary, dr awssdk.Config, err error) {
	p, err := LoadConfig(ctx, profile, primaryRegion)
	if err != nil {
		return awssdk.Config{}, awssdk.Config{}, err
	}
	d, err := LoadConfig(ctx, profile, drRegion)
	if err != nil {
		return awssdk.Config{}, awssdk.Config{}, err
	}
	return *p, *d, nil
}
