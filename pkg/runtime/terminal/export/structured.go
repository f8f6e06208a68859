package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/de-tools/dr-readiness/pkg/adapters"
	"github.com/de-tools/dr-readiness/pkg/models/api"
	"github.com/de-tools/dr-readiness/pkg/models/domain"
	"github.com/de-tools/dr-readiness/pkg/services/readiness"
)

// Structured output uses the HTTP API representation so both surfaces agree.
// Facts are not included; check --save-facts writes them.

type jsonReporter struct {
	writer io.Writer
}

func (r *jsonReporter) Handle(report domain.Report) error {
	return r.encode(adapters.MapReportDomainToApi(report))
}

func (r *jsonReporter) HandleRun(report domain.Report, _ readiness.Input) error {
	return r.Handle(report)
}

func (r *jsonReporter) HandleList(reports []domain.Report) error {
	return r.encode(mapReports(reports))
}

func (r *jsonReporter) encode(v any) error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

type yamlReporter struct {
	writer io.Writer
}

func (r *yamlReporter) Handle(report domain.Report) error {
	return r.encode(adapters.MapReportDomainToApi(report))
}

func (r *yamlReporter) HandleRun(report domain.Report, _ readiness.Input) error {
	return r.Handle(report)
}

func (r *yamlReporter) HandleList(reports []domain.Report) error {
	return r.encode(mapReports(reports))
}

func (r *yamlReporter) encode(v any) error {
	enc := yaml.NewEncoder(r.writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}

func mapReports(reports []domain.Report) api.ReportsResponse {
	res := api.ReportsResponse{Reports: make([]api.Report, 0, len(reports))}
	for _, r := range reports {
		res.Reports = append(res.Reports, adapters.MapReportDomainToApi(r))
	}
	return res
}
