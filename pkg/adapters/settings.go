package adapters

import (
	"github.com/de-tools/dr-readiness/pkg/models/domain"
	"github.com/de-tools/dr-readiness/pkg/services/config"
	"github.com/de-tools/dr-readiness/pkg/services/readiness"
)

// MapSettingsToReadiness builds evaluation settings from configuration.
// primaryRegion replaces an unset PrimaryRegion, e.g. the profile's region.
func MapSettingsToReadiness(s config.Settings, primaryRegion string) readiness.Settings {
	if s.PrimaryRegion != "" {
		primaryRegion = s.PrimaryRegion
	}
	return readiness.Settings{
		PrimaryRegion: primaryRegion,
		DRRegion:      s.DRRegion,
		Thresholds: domain.Thresholds{
			RPOMinutes:        s.RPOMinutes,
			ReplicaLagSeconds: s.ReplicaLagThresholdSeconds,
		},
		Concurrent: s.Concurrent,
	}
}
