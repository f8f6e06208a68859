package readiness

import (
	"strings"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
)

// criticalPhrases are matched case-insensitively against issue messages.
// Downstream consumers depend on this exact boundary.
var criticalPhrases = []string{"failed", "not available", "not found"}

// Classify derives the severity of an issue from its message text only.
func Classify(issue domain.Issue) domain.Severity {
	msg := strings.ToLower(issue.Message)
	for _, phrase := range criticalPhrases {
		if strings.Contains(msg, phrase) {
			return domain.SeverityCritical
		}
	}
	return domain.SeverityWarning
}
