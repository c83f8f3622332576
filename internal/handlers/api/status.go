package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"suppsearch/internal/cache"
	"suppsearch/internal/db"
	"suppsearch/internal/models"
	"suppsearch/internal/validation"
)

// ItemGetter reads discovery-queue items. Implemented by *db.DB.
type ItemGetter interface {
	GetDiscoveryItem(ctx context.Context, id uuid.UUID) (*models.DiscoveryItem, error)
}

// StatusHandler answers polling requests about in-flight enrichment runs.
// The protocol is inferred from cache state: a present entry means completed,
// an absent one means the worker is still processing. When the caller's job
// id names a queue item the worker marked failed, that is reported instead
// of an eternal "processing".
type StatusHandler struct {
	cache *cache.Gateway
	queue ItemGetter
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(gateway *cache.Gateway, queue ItemGetter) *StatusHandler {
	return &StatusHandler{cache: gateway, queue: queue}
}

// Status handles GET /api/status?supplement=&jobId=.
func (h *StatusHandler) Status(c fiber.Ctx) error {
	supplement := c.Query("supplement")
	jobID := c.Query("jobId")

	if !validation.ValidateSupplementID(supplement) {
		return jsonError(c, fiber.StatusBadRequest, "invalid supplement identifier")
	}

	entry, err := h.cache.Get(c.Context(), supplement)
	if err != nil {
		slog.Error("status poll read failed", "supplement", supplement, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.StatusResponse{
			Success:    false,
			Status:     models.StatusError,
			JobID:      jobID,
			Supplement: supplement,
			Error:      "cache read failed",
		})
	}

	if entry == nil {
		if h.failedRun(c.Context(), jobID) {
			return c.JSON(models.StatusResponse{
				Success:    false,
				Status:     models.StatusError,
				JobID:      jobID,
				Supplement: supplement,
				Error:      "enrichment run failed",
			})
		}
		return c.JSON(models.StatusResponse{
			Success:    true,
			Status:     models.StatusProcessing,
			JobID:      jobID,
			Supplement: supplement,
		})
	}

	return c.JSON(models.StatusResponse{
		Success:    true,
		Status:     models.StatusCompleted,
		JobID:      jobID,
		Supplement: supplement,
		Data:       entry.EnrichedData,
		Metadata: &models.StatusMetadata{
			CachedAt:   entry.CreatedAt,
			TTLSeconds: int64(entry.TTL.Seconds()),
		},
	})
}

// failedRun reports whether jobID names a discovery item the worker gave up
// on. Opaque or unknown job ids simply read as "still processing".
func (h *StatusHandler) failedRun(ctx context.Context, jobID string) bool {
	id, err := uuid.Parse(jobID)
	if err != nil {
		return false
	}
	item, err := h.queue.GetDiscoveryItem(ctx, id)
	if err != nil {
		if !errors.Is(err, db.ErrItemNotFound) {
			slog.Error("status poll queue read failed", "jobId", jobID, "error", err)
		}
		return false
	}
	return item.Status == models.DiscoveryFailed
}
