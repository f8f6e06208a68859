package checks

import "github.com/de-tools/dr-readiness/pkg/models/domain"

// Tables checks replica health and DR coverage of DynamoDB tables. Replica
// update times are informational and never used for staleness.
func Tables(facts []domain.FactResult, env Env) []domain.Issue {
	facts, unsupported := ofType(domain.CheckTables, facts, domain.ResourceTypeTable)
	if len(facts) == 0 {
		return append([]domain.Issue{newIssue(domain.CheckTables, "", "No DynamoDB tables found")}, unsupported...)
	}

	var issues []domain.Issue
	for _, res := range facts {
		table := res.Fact
		if res.Err != nil {
			issues = append(issues, newIssue(domain.CheckTables, table.ID,
				"Error checking table %s: %v", table.ID, res.Err))
			continue
		}

		regions := table.ReplicaRegions
		if len(regions) == 0 {
			regions = make([]string, 0, len(table.Replicas))
			for _, r := range table.Replicas {
				regions = append(regions, r.Region)
			}
		}
		if len(regions) == 0 {
			issues = append(issues, newIssue(domain.CheckTables, table.ID,
				"DynamoDB table %s has no replicas", table.ID))
			continue
		}

		for _, r := range table.Replicas {
			if r.Status != domain.StateActive {
				issues = append(issues, newIssue(domain.CheckTables, table.ID,
					"DynamoDB table %s replica in %s is not ACTIVE (Status: %s)", table.ID, r.Region, r.Status))
			}
		}

		if VerifyReplication(regions, env.DRRegion) == Missing {
			issues = append(issues, newIssue(domain.CheckTables, table.ID,
				"DynamoDB table %s does not have replica in DR region %s", table.ID, env.DRRegion))
		}
	}
	return append(issues, unsupported...)
}
