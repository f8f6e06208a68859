package reports

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/de-tools/dr-readiness/pkg/adapters"
	"github.com/de-tools/dr-readiness/pkg/models/api"
	"github.com/de-tools/dr-readiness/pkg/models/domain"
	"github.com/de-tools/dr-readiness/pkg/services/readiness"
	"github.com/de-tools/dr-readiness/pkg/services/workflow"
	"github.com/de-tools/dr-readiness/pkg/store/history"
)

const maxRequestBody = 10 << 20

type Runner interface {
	RunOnce(ctx context.Context) (workflow.RunResult, error)
}

type LatestReport interface {
	Latest() (domain.Report, bool)
}

type Dependencies struct {
	Evaluator *readiness.Evaluator
	// Defaults fill the thresholds and regions an evaluate request omits.
	Defaults readiness.Settings
	// Runner, History and Latest are optional.
	Runner  Runner
	History history.Store
	Latest  LatestReport
	Now     func() time.Time
}

type Handler struct {
	deps     Dependencies
	validate *validator.Validate
}

func NewHandler(deps Dependencies) *Handler {
	if deps.Evaluator == nil {
		deps.Evaluator = readiness.NewEvaluator()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Handler{deps: deps, validate: validator.New()}
}

// Evaluate builds a report from the facts in the request body.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.EvaluateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.DRRegion == "" {
		req.DRRegion = h.deps.Defaults.DRRegion
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	settings := adapters.MapEvaluateRequestToSettings(req, h.deps.Defaults)
	now := h.deps.Now().UTC()
	if req.GeneratedAt != nil {
		now = req.GeneratedAt.UTC()
	}

	report, err := h.deps.Evaluator.Evaluate(adapters.MapEvaluateRequestToInput(req), settings, now)
	if err != nil {
		logger.Error().Err(err).Msg("failed to evaluate readiness")
		writeError(ctx, w, http.StatusInternalServerError, "failed to evaluate readiness")
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapReportDomainToApi(report))
}

// GetReadiness collects live facts and evaluates them.
func (h *Handler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.deps.Runner == nil {
		writeError(ctx, w, http.StatusNotImplemented, "live collection is not configured")
		return
	}

	res, err := h.deps.Runner.RunOnce(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("readiness run failed")
		writeError(ctx, w, http.StatusInternalServerError, "readiness run failed")
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapReportDomainToApi(res.Report))
}

// GetLatest returns the last report of the scheduled runs.
func (h *Handler) GetLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.deps.Latest == nil {
		writeError(ctx, w, http.StatusNotImplemented, "scheduled runs are not configured")
		return
	}
	report, ok := h.deps.Latest.Latest()
	if !ok {
		writeError(ctx, w, http.StatusNotFound, "no report available yet")
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapReportDomainToApi(report))
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.deps.History == nil {
		writeError(ctx, w, http.StatusNotImplemented, "report history is not configured")
		return
	}

	limit := history.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(ctx, w, http.StatusBadRequest, "invalid 'limit', expected a positive integer")
			return
		}
		limit = n
	}

	reports, err := h.deps.History.List(ctx, limit)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to list reports")
		writeError(ctx, w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	response := api.ReportsResponse{Reports: make([]api.Report, 0, len(reports))}
	for _, report := range reports {
		response.Reports = append(response.Reports, adapters.MapReportDomainToApi(report))
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.deps.History == nil {
		writeError(ctx, w, http.StatusNotImplemented, "report history is not configured")
		return
	}

	id := chi.URLParam(r, "id")
	report, err := h.deps.History.Get(ctx, id)
	if errors.Is(err, history.ErrNotFound) {
		writeError(ctx, w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("report_id", id).Msg("failed to load report")
		writeError(ctx, w, http.StatusInternalServerError, "failed to load report")
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapReportDomainToApi(*report))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	writeJSON(ctx, w, status, api.ErrorResponse{Error: msg})
}
