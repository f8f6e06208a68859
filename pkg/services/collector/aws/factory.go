package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"

	"github.com/de-tools/dr-readiness/pkg/services/collector"
)

type Options struct {
	Profile         string
	PrimaryRegion   string
	DRRegion        string
	AlarmNamePrefix string
}

// Session is a connected account: the collectors of every readiness check
// plus the primary region configuration for other AWS clients.
type Session struct {
	Controller collector.Controller
	Primary    awssdk.Config
}

// Connect loads the primary and DR region configurations and registers a
// collector for every readiness check.
func Connect(ctx context.Context, opts Options) (*Session, error) {
	cfg, drCfg, err := LoadConfigs(ctx, opts.Profile, opts.PrimaryRegion, opts.DRRegion)
	if err != nil {
		return nil, err
	}

	ctrl, err := collector.NewController(
		NewVolumeCollector(cfg, drCfg),
		NewDatabaseCollector(cfg, drCfg),
		NewBucketCollector(cfg),
		NewTableCollector(cfg),
		NewBackupCollector(cfg),
		NewAlarmCollector(cfg, opts.AlarmNamePrefix),
	)
	if err != nil {
		return nil, err
	}

	return &Session{Controller: ctrl, Primary: cfg}, nil
}
