package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"suppsearch/internal/models"
)

// GetCacheEntry fetches the enriched entry for a supplement identifier.
// Absence is not an error: a nil entry with a nil error means "not yet
// enriched". Expired entries are treated as absent.
func (d *DB) GetCacheEntry(ctx context.Context, supplementID string) (*models.CacheEntry, error) {
	entry := &models.CacheEntry{}
	var ttlSeconds int64

	err := d.Pool.QueryRow(ctx, `
		SELECT supplement_id, enriched_data, created_at, ttl_seconds
		FROM supplement_cache
		WHERE supplement_id = $1
	`, supplementID).Scan(&entry.SupplementID, &entry.EnrichedData, &entry.CreatedAt, &ttlSeconds)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	entry.TTL = time.Duration(ttlSeconds) * time.Second
	if entry.Expired(time.Now()) {
		return nil, nil
	}
	return entry, nil
}

// PutCacheEntry upserts an enriched entry. The external worker owns the
// write path in production; overwrites are idempotent, so concurrent
// duplicate runs for the same key are wasteful but safe.
func (d *DB) PutCacheEntry(ctx context.Context, supplementID string, payload json.RawMessage, ttl time.Duration) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO supplement_cache (supplement_id, enriched_data, created_at, ttl_seconds)
		VALUES ($1, $2, NOW(), $3)
		ON CONFLICT (supplement_id) DO UPDATE
		SET enriched_data = EXCLUDED.enriched_data,
		    created_at = EXCLUDED.created_at,
		    ttl_seconds = EXCLUDED.ttl_seconds
	`, supplementID, payload, int64(ttl/time.Second))
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// DeleteExpiredCacheEntries removes entries whose TTL has elapsed. Postgres
// has no expiry of its own; the janitor calls this periodically.
func (d *DB) DeleteExpiredCacheEntries(ctx context.Context) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `
		DELETE FROM supplement_cache
		WHERE ttl_seconds > 0
		  AND created_at + make_interval(secs => ttl_seconds) < NOW()
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired cache entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
