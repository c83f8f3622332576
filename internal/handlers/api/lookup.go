package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"suppsearch/internal/budget"
	"suppsearch/internal/config"
	"suppsearch/internal/lookup"
	"suppsearch/internal/metrics"
	"suppsearch/internal/models"
	"suppsearch/internal/pipeline"
	"suppsearch/internal/validation"
)

// LookupHandler resolves free-text queries: instantly from the cache when
// possible, otherwise by starting the budgeted enrichment pipeline.
type LookupHandler struct {
	svc  *lookup.Service
	pipe *pipeline.Orchestrator
	cfg  *config.Config
}

// NewLookupHandler creates a new lookup handler.
func NewLookupHandler(svc *lookup.Service, pipe *pipeline.Orchestrator, cfg *config.Config) *LookupHandler {
	return &LookupHandler{svc: svc, pipe: pipe, cfg: cfg}
}

// Lookup handles GET /api/lookup?q=.
func (h *LookupHandler) Lookup(c fiber.Ctx) error {
	start := time.Now()

	raw := c.Query("q")
	if valid, msg := validation.ValidateQuery(raw); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	// One budget manager per request; no shared timer state.
	bm := budget.New(h.cfg.TotalBudget)

	entry, nq, lr, err := h.svc.InstantEntry(c.Context(), raw)
	if err != nil {
		// A degraded read is not fatal to the lookup itself: fall through
		// to the pipeline, which will enqueue at most a redundant run.
		slog.Error("cache read failed during lookup", "supplement", lr.NormalizedName, "error", err)
	}
	lookupTiming := models.StageTiming{Stage: "lookup", ElapsedMs: time.Since(start).Milliseconds()}

	if entry != nil {
		metrics.RecordQueryLookup(nq.Normalized, models.OutcomeInstant)
		return jsonSuccess(c, models.LookupResponse{
			Query:   nq,
			Result:  lr,
			Instant: true,
			Data:    entry.EnrichedData,
			Timings: []models.StageTiming{lookupTiming},
			TotalMs: time.Since(start).Milliseconds(),
		})
	}

	res, err := h.pipe.Run(c.Context(), bm, nq, lr)
	timings := append([]models.StageTiming{lookupTiming}, res.Timings...)
	observeStages(timings)

	if err != nil {
		if errors.Is(err, budget.ErrBudgetExhausted) {
			metrics.BudgetExhaustions.Inc()
			return jsonError(c, fiber.StatusServiceUnavailable, "request budget exhausted")
		}
		var timeout *budget.StageTimeoutError
		if errors.As(err, &timeout) {
			return jsonError(c, fiber.StatusGatewayTimeout, "stage "+timeout.Label+" timed out")
		}
		slog.Error("pipeline failed", "query", nq.Normalized, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to start enrichment")
	}

	outcome := models.OutcomeFallback
	if lr.Cached {
		outcome = models.OutcomePipeline
	}
	metrics.RecordQueryLookup(nq.Normalized, outcome)

	return jsonSuccess(c, models.LookupResponse{
		Query:   nq,
		Result:  lr,
		Instant: false,
		JobID:   res.JobID.String(),
		Timings: timings,
		TotalMs: time.Since(start).Milliseconds(),
	})
}

// observeStages feeds stage timings into the Prometheus histograms.
func observeStages(timings []models.StageTiming) {
	for _, t := range timings {
		metrics.StageDuration.WithLabelValues(t.Stage).Observe(float64(t.ElapsedMs) / 1000)
		if t.TimedOut {
			metrics.StageTimeouts.WithLabelValues(t.Stage).Inc()
		}
	}
}
