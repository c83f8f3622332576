package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"suppsearch/internal/catalog"
	"suppsearch/internal/models"
)

// EntryChecker reads cache entries for preload deduplication.
type EntryChecker interface {
	Get(ctx context.Context, supplementID string) (*models.CacheEntry, error)
}

// DiscoveryQueue is the subset of the database the preload handler needs.
type DiscoveryQueue interface {
	EnqueueDiscovery(ctx context.Context, item *models.DiscoveryItem) error
	HasPendingDiscovery(ctx context.Context, supplementID string) (bool, error)
}

// PreloadHandler queues enrichment runs for the most popular catalog entries
// so frequent queries hit the cache instead of the pipeline.
type PreloadHandler struct {
	catalog *catalog.Catalog
	cache   EntryChecker
	queue   DiscoveryQueue
}

// NewPreloadHandler creates a new preload handler.
func NewPreloadHandler(cat *catalog.Catalog, cache EntryChecker, queue DiscoveryQueue) *PreloadHandler {
	return &PreloadHandler{catalog: cat, cache: cache, queue: queue}
}

// Preload handles POST /api/admin/preload. It walks the high-popularity tier
// of the catalog and enqueues a discovery item for every supplement that is
// neither cached nor already pending.
func (h *PreloadHandler) Preload(c fiber.Ctx) error {
	var resp models.PreloadResponse

	for _, supp := range h.catalog.ByPopularity(models.PopularityHigh) {
		entry, err := h.cache.Get(c.Context(), supp.NormalizedName)
		if err != nil {
			slog.Error("preload cache check failed", "supplement", supp.NormalizedName, "error", err)
			return jsonError(c, fiber.StatusInternalServerError, "cache read failed")
		}
		if entry != nil {
			resp.Skipped++
			continue
		}

		pending, err := h.queue.HasPendingDiscovery(c.Context(), supp.NormalizedName)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "queue check failed")
		}
		if pending {
			resp.Skipped++
			continue
		}

		err = h.queue.EnqueueDiscovery(c.Context(), &models.DiscoveryItem{
			SupplementID: supp.NormalizedName,
			Query:        supp.NormalizedName,
			PubmedQuery:  supp.SearchQuery,
		})
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to queue preload")
		}
		resp.Queued++
	}

	slog.Info("preload completed", "queued", resp.Queued, "skipped", resp.Skipped)
	return jsonSuccess(c, resp)
}
