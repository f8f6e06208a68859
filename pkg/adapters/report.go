package adapters

import (
	"slices"

	"github.com/de-tools/dr-readiness/pkg/models/api"
	"github.com/de-tools/dr-readiness/pkg/models/domain"
	"github.com/de-tools/dr-readiness/pkg/models/store"
)

func MapIssueDomainToApi(i domain.Issue, s domain.Severity) api.Issue {
	return api.Issue{
		Check:      string(i.Check),
		ResourceID: i.ResourceID,
		Message:    i.Message,
		Severity:   api.Severity(s),
	}
}

func MapReportDomainToApi(r domain.Report) api.Report {
	res := api.Report{
		ID:            r.ID,
		GeneratedAt:   r.GeneratedAt,
		PrimaryRegion: r.PrimaryRegion,
		DRRegion:      r.DRRegion,
		Thresholds: api.Thresholds{
			RPOMinutes:        r.Thresholds.RPOMinutes,
			ReplicaLagSeconds: r.Thresholds.ReplicaLagSeconds,
		},
		Summary: api.Summary{
			CriticalCount: r.CriticalCount,
			WarningCount:  r.WarningCount,
			Verdict:       string(r.Verdict),
			Ready:         r.Ready(),
		},
		Issues:   make([]api.Issue, 0, len(r.Issues)),
		Critical: make([]api.Issue, 0, len(r.Critical)),
		Warnings: make([]api.Issue, 0, len(r.Warnings)),
	}
	for pos, severity := range issueSeverities(r) {
		res.Issues = append(res.Issues, MapIssueDomainToApi(r.Issues[pos], severity))
	}
	for _, i := range r.Critical {
		res.Critical = append(res.Critical, MapIssueDomainToApi(i, domain.SeverityCritical))
	}
	for _, i := range r.Warnings {
		res.Warnings = append(res.Warnings, MapIssueDomainToApi(i, domain.SeverityWarning))
	}
	return res
}

// issueSeverities returns the severity of every issue of r, in report order.
// Critical and Warnings partition Issues without reordering.
func issueSeverities(r domain.Report) []domain.Severity {
	res := make([]domain.Severity, 0, len(r.Issues))
	ci := 0
	for _, i := range r.Issues {
		severity := domain.SeverityWarning
		if ci < len(r.Critical) && r.Critical[ci] == i {
			severity = domain.SeverityCritical
			ci++
		}
		res = append(res, severity)
	}
	return res
}

// MapReportDomainToStore flattens a report into a run row and one row per
// issue, keeping the report's issue order in Position.
func MapReportDomainToStore(r domain.Report) store.ReportRecord {
	rec := store.ReportRecord{
		Run: store.ReportRun{
			ID:                r.ID,
			GeneratedAt:       r.GeneratedAt.UTC(),
			PrimaryRegion:     r.PrimaryRegion,
			DRRegion:          r.DRRegion,
			RPOMinutes:        r.Thresholds.RPOMinutes,
			ReplicaLagSeconds: r.Thresholds.ReplicaLagSeconds,
			Verdict:           string(r.Verdict),
			CriticalCount:     r.CriticalCount,
			WarningCount:      r.WarningCount,
		},
		Issues: make([]store.ReportIssue, 0, len(r.Issues)),
	}

	severities := issueSeverities(r)
	for pos, i := range r.Issues {
		rec.Issues = append(rec.Issues, store.ReportIssue{
			RunID:      r.ID,
			Position:   pos,
			Check:      string(i.Check),
			ResourceID: i.ResourceID,
			Severity:   string(severities[pos]),
			Message:    i.Message,
		})
	}
	return rec
}

func MapReportStoreToDomain(rec store.ReportRecord) domain.Report {
	r := domain.Report{
		ID:            rec.Run.ID,
		GeneratedAt:   rec.Run.GeneratedAt,
		PrimaryRegion: rec.Run.PrimaryRegion,
		DRRegion:      rec.Run.DRRegion,
		Thresholds: domain.Thresholds{
			RPOMinutes:        rec.Run.RPOMinutes,
			ReplicaLagSeconds: rec.Run.ReplicaLagSeconds,
		},
		CriticalCount: rec.Run.CriticalCount,
		WarningCount:  rec.Run.WarningCount,
		Verdict:       domain.Verdict(rec.Run.Verdict),
	}

	rows := slices.Clone(rec.Issues)
	slices.SortStableFunc(rows, func(a, b store.ReportIssue) int {
		return a.Position - b.Position
	})
	for _, row := range rows {
		issue := domain.Issue{
			Check:      domain.CheckName(row.Check),
			ResourceID: row.ResourceID,
			Message:    row.Message,
		}
		r.Issues = append(r.Issues, issue)
		if domain.Severity(row.Severity) == domain.SeverityCritical {
			r.Critical = append(r.Critical, issue)
		} else {
			r.Warnings = append(r.Warnings, issue)
		}
	}
	return r
}
