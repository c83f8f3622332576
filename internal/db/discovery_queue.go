package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"suppsearch/internal/models"
)

// EnqueueDiscovery hands a supplement off to the external enrichment worker.
// A pending item already queued for the same supplement is bumped instead of
// duplicated, so concurrent requests for the same unknown substance produce
// one enrichment run.
func (d *DB) EnqueueDiscovery(ctx context.Context, item *models.DiscoveryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO discovery_queue (id, supplement_id, query, pubmed_query, status, search_count, created_at)
		VALUES ($1, $2, $3, $4, 'pending', 1, NOW())
		ON CONFLICT (supplement_id) WHERE status = 'pending' DO UPDATE
		SET search_count = discovery_queue.search_count + 1
	`, item.ID, item.SupplementID, item.Query, item.PubmedQuery)
	if err != nil {
		return fmt.Errorf("failed to enqueue discovery item: %w", err)
	}
	return nil
}

// GetDiscoveryItem fetches a queue item by id.
func (d *DB) GetDiscoveryItem(ctx context.Context, id uuid.UUID) (*models.DiscoveryItem, error) {
	item := &models.DiscoveryItem{}
	err := d.Pool.QueryRow(ctx, `
		SELECT id, supplement_id, query, pubmed_query, status, search_count, created_at
		FROM discovery_queue
		WHERE id = $1
	`, id).Scan(&item.ID, &item.SupplementID, &item.Query, &item.PubmedQuery, &item.Status, &item.SearchCount, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to read discovery item: %w", err)
	}
	return item, nil
}

// HasPendingDiscovery reports whether a pending item exists for a supplement.
func (d *DB) HasPendingDiscovery(ctx context.Context, supplementID string) (bool, error) {
	var exists bool
	err := d.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM discovery_queue
			WHERE supplement_id = $1 AND status = 'pending'
		)
	`, supplementID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending discovery: %w", err)
	}
	return exists, nil
}

// DeleteStaleDiscoveryItems removes finished queue rows older than maxAge.
func (d *DB) DeleteStaleDiscoveryItems(ctx context.Context, maxAge time.Duration) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `
		DELETE FROM discovery_queue
		WHERE status IN ('completed', 'failed')
		  AND created_at < NOW() - make_interval(secs => $1)
	`, int64(maxAge/time.Second))
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale discovery items: %w", err)
	}
	return tag.RowsAffected(), nil
}
