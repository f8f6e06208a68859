package checks

import "github.com/de-tools/dr-readiness/pkg/models/domain"

// Volumes checks the latest DR snapshot of every volume for age and for a
// copy in the DR region.
func Volumes(facts []domain.FactResult, env Env) []domain.Issue {
	facts, unsupported := ofType(domain.CheckVolumes, facts, domain.ResourceTypeVolume)
	if len(facts) == 0 {
		return append([]domain.Issue{newIssue(domain.CheckVolumes, "", "No EC2 DR snapshots found")}, unsupported...)
	}

	var issues []domain.Issue
	for _, res := range facts {
		issues = append(issues, volumeIssues(res, env)...)
	}
	return append(issues, unsupported...)
}

func volumeIssues(res domain.FactResult, env Env) []domain.Issue {
	vol := res.Fact
	if res.Err != nil {
		return []domain.Issue{newIssue(domain.CheckVolumes, vol.ID,
			"Could not verify DR snapshot for volume %s: %v", vol.ID, res.Err)}
	}

	var issues []domain.Issue
	switch Staleness(vol.Timestamp, env.Thresholds.RPOMinutes, env.Now) {
	case Unknown:
		issues = append(issues, newIssue(domain.CheckVolumes, vol.ID,
			"Snapshot for volume %s has no recorded start time", vol.ID))
	case Stale:
		issues = append(issues, newIssue(domain.CheckVolumes, vol.ID,
			"Snapshot for volume %s is older than RPO target (%d minutes)", vol.ID, env.Thresholds.RPOMinutes))
	}

	if VerifyReplication(vol.ReplicaRegions, env.DRRegion) == Missing {
		if vol.Artifact != "" {
			issues = append(issues, newIssue(domain.CheckVolumes, vol.ID,
				"Snapshot %s not found in DR region %s", vol.Artifact, env.DRRegion))
		} else {
			issues = append(issues, newIssue(domain.CheckVolumes, vol.ID,
				"Snapshot for volume %s not found in DR region %s", vol.ID, env.DRRegion))
		}
	}
	return issues
}
