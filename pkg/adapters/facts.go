package adapters

import (
	"errors"
	"time"

	"github.com/de-tools/dr-readiness/pkg/models/api"
	"github.com/de-tools/dr-readiness/pkg/models/domain"
	"github.com/de-tools/dr-readiness/pkg/services/readiness"
)

func MapFactApiToDomain(f api.Fact) domain.FactResult {
	res := domain.FactResult{
		Fact: domain.ResourceFact{
			Type:           domain.ResourceType(f.Type),
			ID:             f.ID,
			Timestamp:      f.Timestamp,
			State:          f.State,
			ReplicaRegions: f.ReplicaRegions,
			LagSeconds:     f.LagSeconds,
			Artifact:       f.Artifact,
			Parent:         f.Parent,
		},
	}
	for _, r := range f.Replicas {
		res.Fact.Replicas = append(res.Fact.Replicas, domain.ReplicaStatus{
			Region:    r.Region,
			Status:    r.Status,
			UpdatedAt: r.UpdatedAt,
		})
	}
	for _, d := range f.Details {
		res.Fact.Details = append(res.Fact.Details, domain.Detail{Name: d.Name, Value: d.Value})
	}
	if f.Error != "" {
		res.Err = errors.New(f.Error)
	}
	return res
}

func MapFactDomainToApi(res domain.FactResult) api.Fact {
	f := res.Fact
	out := api.Fact{
		Type:           string(f.Type),
		ID:             f.ID,
		Timestamp:      f.Timestamp,
		State:          f.State,
		ReplicaRegions: f.ReplicaRegions,
		LagSeconds:     f.LagSeconds,
		Artifact:       f.Artifact,
		Parent:         f.Parent,
	}
	for _, r := range f.Replicas {
		out.Replicas = append(out.Replicas, api.ReplicaStatus{
			Region:    r.Region,
			Status:    r.Status,
			UpdatedAt: r.UpdatedAt,
		})
	}
	for _, d := range f.Details {
		out.Details = append(out.Details, api.Detail{Name: d.Name, Value: d.Value})
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out
}

func MapCheckFactsApiToDomain(c api.CheckFacts) readiness.CheckInput {
	in := readiness.CheckInput{
		Facts: make([]domain.FactResult, 0, len(c.Facts)),
	}
	for _, f := range c.Facts {
		in.Facts = append(in.Facts, MapFactApiToDomain(f))
	}
	if c.Error != "" {
		in.Err = errors.New(c.Error)
	}
	return in
}

// MapEvaluateRequestToInput converts the checks of req. Unknown check names
// are kept and ignored by the evaluator.
func MapEvaluateRequestToInput(req api.EvaluateRequest) readiness.Input {
	input := make(readiness.Input, len(req.Checks))
	for name, c := range req.Checks {
		input[domain.CheckName(name)] = MapCheckFactsApiToDomain(c)
	}
	return input
}

// MapInputToEvaluateRequest captures collected facts so they can be
// evaluated again offline.
func MapInputToEvaluateRequest(input readiness.Input, settings readiness.Settings, collectedAt time.Time) api.EvaluateRequest {
	req := api.EvaluateRequest{
		PrimaryRegion:              settings.PrimaryRegion,
		DRRegion:                   settings.DRRegion,
		RPOMinutes:                 settings.Thresholds.RPOMinutes,
		ReplicaLagThresholdSeconds: settings.Thresholds.ReplicaLagSeconds,
		GeneratedAt:                &collectedAt,
		Checks:                     make(map[string]api.CheckFacts, len(input)),
	}
	for name, in := range input {
		c := api.CheckFacts{Facts: make([]api.Fact, 0, len(in.Facts))}
		for _, f := range in.Facts {
			c.Facts = append(c.Facts, MapFactDomainToApi(f))
		}
		if in.Err != nil {
			c.Error = in.Err.Error()
		}
		req.Checks[string(name)] = c
	}
	return req
}

// MapEvaluateRequestToSettings merges the request's regions and thresholds
// over defaults. Zero thresholds in the request select the defaults.
func MapEvaluateRequestToSettings(req api.EvaluateRequest, defaults readiness.Settings) readiness.Settings {
	settings := defaults
	if req.PrimaryRegion != "" {
		settings.PrimaryRegion = req.PrimaryRegion
	}
	if req.DRRegion != "" {
		settings.DRRegion = req.DRRegion
	}
	if req.RPOMinutes > 0 {
		settings.Thresholds.RPOMinutes = req.RPOMinutes
	}
	if req.ReplicaLagThresholdSeconds > 0 {
		settings.Thresholds.ReplicaLagSeconds = req.ReplicaLagThresholdSeconds
	}
	return settings
}
