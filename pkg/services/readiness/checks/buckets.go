package checks

import "github.com/de-tools/dr-readiness/pkg/models/domain"

// Buckets checks buckets that have a replication configuration. ReplicaRegions
// holds the resolved regions of the replication destinations and Artifact the
// replication role name.
func Buckets(facts []domain.FactResult, env Env) []domain.Issue {
	facts, unsupported := ofType(domain.CheckBuckets, facts, domain.ResourceTypeBucket)
	if len(facts) == 0 {
		return append([]domain.Issue{newIssue(domain.CheckBuckets, "", "No S3 cross-region replication configured")}, unsupported...)
	}

	var issues []domain.Issue
	for _, res := range facts {
		bucket := res.Fact
		if res.Err != nil {
			issues = append(issues, newIssue(domain.CheckBuckets, bucket.ID,
				"Error checking replication for bucket %s: %v", bucket.ID, res.Err))
			continue
		}

		if VerifyReplication(bucket.ReplicaRegions, env.DRRegion) == Missing {
			issues = append(issues, newIssue(domain.CheckBuckets, bucket.ID,
				"Replication destination for %s does not include DR region %s", bucket.ID, env.DRRegion))
		}

		switch bucket.State {
		case domain.StateRoleMissing:
			if bucket.Artifact == "" {
				issues = append(issues, newIssue(domain.CheckBuckets, bucket.ID,
					"Replication role for bucket %s not found", bucket.ID))
			} else {
				issues = append(issues, newIssue(domain.CheckBuckets, bucket.ID,
					"Replication role %s for bucket %s not found", bucket.Artifact, bucket.ID))
			}
		case domain.StateRoleUnverified:
			issues = append(issues, newIssue(domain.CheckBuckets, bucket.ID,
				"Could not verify replication role %s for bucket %s", bucket.Artifact, bucket.ID))
		}
	}
	return append(issues, unsupported...)
}
