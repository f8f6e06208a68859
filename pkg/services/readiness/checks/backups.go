package checks

import "github.com/de-tools/dr-readiness/pkg/models/domain"

func Backups(facts []domain.FactResult, _ Env) []domain.Issue {
	facts, unsupported := ofType(domain.CheckBackups, facts, domain.ResourceTypeBackupJob)
	if len(facts) == 0 {
		return append([]domain.Issue{newIssue(domain.CheckBackups, "", "No AWS Backup jobs found")}, unsupported...)
	}

	var issues []domain.Issue
	for _, res := range facts {
		job := res.Fact
		switch {
		case res.Err != nil:
			issues = append(issues, newIssue(domain.CheckBackups, job.ID,
				"Error checking backup job %s: %v", job.ID, res.Err))
		case job.State == domain.StateFailed:
			issues = append(issues, newIssue(domain.CheckBackups, job.ID, "Backup job %s failed", job.ID))
		case job.State == domain.StateAborted:
			issues = append(issues, newIssue(domain.CheckBackups, job.ID, "Backup job %s was aborted", job.ID))
		}
	}
	return append(issues, unsupported...)
}
