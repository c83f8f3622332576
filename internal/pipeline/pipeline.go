// Package pipeline orchestrates the budgeted enrichment flow behind a
// lookup that cannot be served instantly.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"suppsearch/internal/budget"
	"suppsearch/internal/models"
)

// Stage labels, carried on timeout errors and timing diagnostics.
const (
	StageTranslation = "translation"
	StageSearch      = "search"
	StageEnrich      = "enrich"
)

// Translator renders a query into English before searching. External
// collaborator; a nil Translator skips the stage.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Searcher runs the bounded external study search. External collaborator;
// a nil Searcher skips the stage. The payload is opaque to this subsystem.
type Searcher interface {
	Search(ctx context.Context, query string, filters models.SearchFilters) (json.RawMessage, error)
}

// Enqueuer hands a supplement off to the external enrichment worker.
// Implemented by *db.DB.
type Enqueuer interface {
	EnqueueDiscovery(ctx context.Context, item *models.DiscoveryItem) error
}

// Config holds the per-stage budget ceilings. The budget manager always
// additionally clamps each stage to whatever global budget remains.
type Config struct {
	TranslationBudget time.Duration
	SearchBudget      time.Duration
	EnrichBudget      time.Duration
}

// Orchestrator runs the translation, search, and enrichment-trigger stages
// for one request. Translation and search are best-effort: a timeout or
// failure there degrades to the untranslated query and generic parameters.
// The enrichment trigger is the stage that matters; its failure propagates.
type Orchestrator struct {
	translator Translator
	searcher   Searcher
	queue      Enqueuer
	cfg        Config
}

// New creates an orchestrator. translator and searcher may be nil.
func New(translator Translator, searcher Searcher, queue Enqueuer, cfg Config) *Orchestrator {
	return &Orchestrator{translator: translator, searcher: searcher, queue: queue, cfg: cfg}
}

// Result reports a started enrichment run.
type Result struct {
	JobID   uuid.UUID
	Timings []models.StageTiming
}

// Run executes the pipeline under the request's budget manager. The caller
// has already normalized the query and resolved lookup parameters.
func (o *Orchestrator) Run(ctx context.Context, bm *budget.Manager, nq models.NormalizedQuery, lr models.LookupResult) (*Result, error) {
	res := &Result{JobID: uuid.New()}
	term := nq.Normalized

	if o.translator != nil && bm.Check(o.cfg.TranslationBudget/2) {
		var translated string
		err := o.timed(ctx, bm, res, StageTranslation, o.cfg.TranslationBudget, func(ctx context.Context) error {
			var terr error
			translated, terr = o.translator.Translate(ctx, term)
			return terr
		})
		switch {
		case err == nil && translated != "":
			term = translated
		case err != nil:
			// Degrade: proceed with the untranslated term.
			slog.Warn("translation stage skipped", "job", res.JobID, "error", err)
		}
	}

	if o.searcher != nil {
		err := o.timed(ctx, bm, res, StageSearch, o.cfg.SearchBudget, func(ctx context.Context) error {
			_, serr := o.searcher.Search(ctx, lr.PubmedQuery, lr.PubmedFilters)
			return serr
		})
		if err != nil {
			// Degrade: the worker re-runs the search with the same bounded
			// parameters, so a failed preliminary search is not fatal.
			slog.Warn("search stage skipped", "job", res.JobID, "error", err)
		}
	}

	err := o.timed(ctx, bm, res, StageEnrich, o.cfg.EnrichBudget, func(ctx context.Context) error {
		return o.queue.EnqueueDiscovery(ctx, &models.DiscoveryItem{
			ID:           res.JobID,
			SupplementID: lr.NormalizedName,
			Query:        term,
			PubmedQuery:  lr.PubmedQuery,
		})
	})
	if err != nil {
		return res, fmt.Errorf("enrichment trigger failed: %w", err)
	}

	return res, nil
}

// timed runs one stage through the budget manager and records its timing.
func (o *Orchestrator) timed(ctx context.Context, bm *budget.Manager, res *Result, label string, stageBudget time.Duration, fn budget.StageFunc) error {
	start := time.Now()
	err := bm.Execute(ctx, label, stageBudget, fn)

	var timeout *budget.StageTimeoutError
	res.Timings = append(res.Timings, models.StageTiming{
		Stage:     label,
		ElapsedMs: time.Since(start).Milliseconds(),
		TimedOut:  errors.As(err, &timeout),
	})
	return err
}
