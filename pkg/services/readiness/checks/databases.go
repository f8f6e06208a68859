package checks

import "github.com/de-tools/dr-readiness/pkg/models/domain"

// Databases checks every primary instance's read replicas and latest snapshot.
// Replicas are evaluated right after their primary; replicas whose primary was
// not observed are evaluated last.
func Databases(facts []domain.FactResult, env Env) []domain.Issue {
	facts, unsupported := ofType(domain.CheckDatabases, facts, domain.ResourceTypeDatabaseInstance, domain.ResourceTypeDatabaseReplica)
	if len(facts) == 0 {
		return append([]domain.Issue{newIssue(domain.CheckDatabases, "", "No RDS DB instances found")}, unsupported...)
	}

	var instances []domain.FactResult
	replicas := make(map[string][]domain.FactResult)
	var parents []string
	for _, res := range facts {
		if res.Fact.Type == domain.ResourceTypeDatabaseInstance {
			instances = append(instances, res)
			continue
		}
		parent := res.Fact.Parent
		if _, seen := replicas[parent]; !seen {
			parents = append(parents, parent)
		}
		replicas[parent] = append(replicas[parent], res)
	}

	var issues []domain.Issue
	evaluated := make(map[string]bool, len(instances))
	for _, inst := range instances {
		db := inst.Fact
		evaluated[db.ID] = true

		if inst.Err != nil {
			issues = append(issues, newIssue(domain.CheckDatabases, db.ID,
				"Error checking DB %s: %v", db.ID, inst.Err))
			for _, r := range replicas[db.ID] {
				issues = append(issues, replicaIssues(r, env)...)
			}
			continue
		}

		if len(replicas[db.ID]) == 0 {
			issues = append(issues, newIssue(domain.CheckDatabases, db.ID, "No read replicas for DB %s", db.ID))
		}
		for _, r := range replicas[db.ID] {
			issues = append(issues, replicaIssues(r, env)...)
		}
		issues = append(issues, dbSnapshotIssues(db, env)...)
	}

	for _, parent := range parents {
		if evaluated[parent] {
			continue
		}
		for _, r := range replicas[parent] {
			issues = append(issues, replicaIssues(r, env)...)
		}
	}
	return append(issues, unsupported...)
}

func replicaIssues(res domain.FactResult, env Env) []domain.Issue {
	replica := res.Fact
	if res.Err != nil {
		return []domain.Issue{newIssue(domain.CheckDatabases, replica.ID,
			"Error checking replica %s: %v", replica.ID, res.Err)}
	}

	var issues []domain.Issue
	if replica.State != domain.StateAvailable {
		state := replica.State
		if state == "" {
			state = "unknown"
		}
		issues = append(issues, newIssue(domain.CheckDatabases, replica.ID,
			"RDS replica %s is not available (status: %s)", replica.ID, state))
	}

	if replica.LagSeconds != nil && *replica.LagSeconds > float64(env.Thresholds.ReplicaLagSeconds) {
		issues = append(issues, newIssue(domain.CheckDatabases, replica.ID,
			"RDS replica %s lag (%ds) exceeds threshold (%ds)",
			replica.ID, int(*replica.LagSeconds), env.Thresholds.ReplicaLagSeconds))
	}
	return issues
}

func dbSnapshotIssues(db domain.ResourceFact, env Env) []domain.Issue {
	if db.Artifact == "" && db.Timestamp == nil {
		return []domain.Issue{newIssue(domain.CheckDatabases, db.ID, "No snapshots recorded for DB %s", db.ID)}
	}

	snapshot := db.Artifact
	if snapshot == "" {
		snapshot = db.ID
	}

	var issues []domain.Issue
	switch Staleness(db.Timestamp, env.Thresholds.RPOMinutes, env.Now) {
	case Unknown:
		issues = append(issues, newIssue(domain.CheckDatabases, db.ID,
			"RDS snapshot %s has no recorded creation time", snapshot))
	case Stale:
		issues = append(issues, newIssue(domain.CheckDatabases, db.ID,
			"RDS snapshot %s is older than RPO target (%d minutes)", snapshot, env.Thresholds.RPOMinutes))
	}

	switch {
	case db.State == domain.StateCopyUnverified:
		issues = append(issues, newIssue(domain.CheckDatabases, db.ID,
			"Could not verify copy of RDS snapshot %s in DR region %s", snapshot, env.DRRegion))
	case VerifyReplication(db.ReplicaRegions, env.DRRegion) == Missing:
		issues = append(issues, newIssue(domain.CheckDatabases, db.ID,
			"RDS snapshot %s not found in DR region %s", snapshot, env.DRRegion))
	}
	return issues
}
