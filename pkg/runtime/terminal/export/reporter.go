package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
	"github.com/de-tools/dr-readiness/pkg/services/readiness"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Warnings beyond this many are summarized in text output.
const maxListedWarnings = 10

const timestampLayout = "2006-01-02 15:04:05 UTC"

// Reporter writes readiness reports in one output format.
type Reporter interface {
	Handle(report domain.Report) error
	// HandleRun writes a report together with the facts it was evaluated from.
	HandleRun(report domain.Report, input readiness.Input) error
	// HandleList writes a listing of archived reports.
	HandleList(reports []domain.Report) error
}

// NewReporter returns the reporter for format. An empty format means text.
func NewReporter(format string, writer io.Writer) (Reporter, error) {
	if writer == nil {
		writer = os.Stdout
	}
	switch format {
	case "", FormatText:
		return NewTextReporter(writer), nil
	case FormatJSON:
		return &jsonReporter{writer: writer}, nil
	case FormatYAML:
		return &yamlReporter{writer: writer}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

type TableConfig struct {
	IDWidth      int
	TimeWidth    int
	RegionWidth  int
	VerdictWidth int
	CountWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		IDWidth:      36,
		TimeWidth:    23,
		RegionWidth:  27,
		VerdictWidth: 7,
		CountWidth:   8,
	}
}

// TextReporter renders human readable reports.
type TextReporter struct {
	writer io.Writer
	config TableConfig
}

func NewTextReporter(writer io.Writer) *TextReporter {
	return &TextReporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

var (
	passStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
)

func verdictBadge(v domain.Verdict) string {
	switch v {
	case domain.VerdictPass:
		return passStyle.Render(string(v))
	case domain.VerdictWarning:
		return warningStyle.Render(string(v))
	default:
		return failStyle.Render(string(v))
	}
}

var recommendedActions = map[domain.Verdict][]string{
	domain.VerdictFail: {
		"Immediately investigate critical risks",
		"Verify replication configurations",
		"Check AWS Backup job failures",
	},
	domain.VerdictWarning: {
		"Review warnings and address non-critical issues",
		"Verify RPO targets are being met",
		"Monitor CloudWatch alarms",
	},
	domain.VerdictPass: {
		"Continue monitoring DR systems",
		"Review RPO/RTO compliance",
		"Test failover procedures regularly",
	},
}

type checkSection struct {
	Title     string
	Resources []resourceView
	Issues    []domain.Issue
}

type reportView struct {
	domain.Report
	Sections      []checkSection
	ListedWarning []domain.Issue
	MoreWarnings  int
	Actions       []string
}

// newReportView builds the text view of report. A nil input leaves out the
// resource inventory.
func newReportView(report domain.Report, input readiness.Input) reportView {
	view := reportView{
		Report:  report,
		Actions: recommendedActions[report.Verdict],
	}
	env := inventoryEnv{DRRegion: report.DRRegion, Now: report.GeneratedAt}
	for _, check := range domain.CheckOrder {
		view.Sections = append(view.Sections, checkSection{
			Title:     check.Title(),
			Resources: inventory(input, check, env),
			Issues:    report.IssuesFor(check),
		})
	}
	view.ListedWarning = report.Warnings
	if len(report.Warnings) > maxListedWarnings {
		view.ListedWarning = report.Warnings[:maxListedWarnings]
		view.MoreWarnings = len(report.Warnings) - maxListedWarnings
	}
	return view
}

const reportTemplate = `{{rule}}
  AWS DR READINESS REPORT
{{rule}}

Report ID: {{.ID}}
Primary Region: {{.PrimaryRegion}}
DR Region: {{.DRRegion}}
RPO Target: {{.Thresholds.RPOMinutes}} minutes
Replica Lag Threshold: {{.Thresholds.ReplicaLagSeconds}} seconds
{{range .Sections}}
=== {{.Title}} ===
{{range .Resources}}  {{.Heading}}
{{range .Lines}}    {{.}}
{{end}}
{{end}}{{if .Issues}}{{range .Issues}}  - {{.Message}}
{{end}}{{else}}  No issues found
{{end}}{{end}}
{{rule}}
  Overall DR Health Summary
{{rule}}

  DR Readiness Status: {{badge .Verdict}}
  Number of Issues Found: {{len .Issues}}
    - Critical Risks: {{.CriticalCount}}
    - Warnings: {{.WarningCount}}
{{if .Critical}}
  Critical Risks:
{{range .Critical}}    - {{.Message}}
{{end}}{{end}}{{if .ListedWarning}}
  Warnings:
{{range .ListedWarning}}    - {{.Message}}
{{end}}{{if .MoreWarnings}}    ... and {{.MoreWarnings}} more warnings
{{end}}{{end}}
  Recommended Next Actions:
{{range .Actions}}    - {{.}}
{{end}}
  Report Timestamp: {{timestamp .GeneratedAt}}
`

const listTemplate = `{{separator}}
{{formatRow "Report ID" "Generated At" "Regions" "Verdict" "Critical" "Warnings"}}
{{separator}}
{{range .}}{{formatRow .ID (timestamp .GeneratedAt) (regions .) (print .Verdict) .CriticalCount .WarningCount}}
{{end}}{{separator}}
`

func (c *TextReporter) funcMap() template.FuncMap {
	return template.FuncMap{
		"rule":      func() string { return strings.Repeat("=", 60) },
		"badge":     verdictBadge,
		"timestamp": formatTimestamp,
		"regions": func(r domain.Report) string {
			return fmt.Sprintf("%s -> %s", r.PrimaryRegion, r.DRRegion)
		},
		"formatRow": func(id, at, regions, verdict string, critical, warnings any) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s | %*v | %*v |",
				c.config.IDWidth, id,
				c.config.TimeWidth, at,
				c.config.RegionWidth, regions,
				c.config.VerdictWidth, verdict,
				c.config.CountWidth, critical,
				c.config.CountWidth, warnings)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.IDWidth+2),
				strings.Repeat("-", c.config.TimeWidth+2),
				strings.Repeat("-", c.config.RegionWidth+2),
				strings.Repeat("-", c.config.VerdictWidth+2),
				strings.Repeat("-", c.config.CountWidth+2),
				strings.Repeat("-", c.config.CountWidth+2))
		},
	}
}

func (c *TextReporter) Handle(report domain.Report) error {
	return c.HandleRun(report, nil)
}

func (c *TextReporter) HandleRun(report domain.Report, input readiness.Input) error {
	t, err := template.New("report").Funcs(c.funcMap()).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, newReportView(report, input))
}

func (c *TextReporter) HandleList(reports []domain.Report) error {
	if len(reports) == 0 {
		_, err := fmt.Fprintln(c.writer, "No archived reports found")
		return err
	}

	t, err := template.New("list").Funcs(c.funcMap()).Parse(listTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, reports)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
