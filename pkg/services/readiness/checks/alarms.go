package checks

import "github.com/de-tools/dr-readiness/pkg/models/domain"

// Alarms reports alarms in ALARM state. INSUFFICIENT_DATA is informational.
func Alarms(facts []domain.FactResult, _ Env) []domain.Issue {
	facts, unsupported := ofType(domain.CheckAlarms, facts, domain.ResourceTypeAlarm)
	if len(facts) == 0 {
		return append([]domain.Issue{newIssue(domain.CheckAlarms, "", "No DR CloudWatch alarms found")}, unsupported...)
	}

	var issues []domain.Issue
	for _, res := range facts {
		alarm := res.Fact
		switch {
		case res.Err != nil:
			issues = append(issues, newIssue(domain.CheckAlarms, alarm.ID,
				"Error checking alarm %s: %v", alarm.ID, res.Err))
		case alarm.State == domain.StateAlarm:
			// the phrasing keeps the issue critical for the classifier
			issues = append(issues, newIssue(domain.CheckAlarms, alarm.ID,
				"CloudWatch alarm %s is in ALARM state: DR health check failed", alarm.ID))
		}
	}
	return append(issues, unsupported...)
}
