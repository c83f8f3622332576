// Package cache is the gateway to the durable enrichment cache.
//
// The durable tier is Postgres; an optional Redis tier sits in front of it
// as a read-through. Reads are eventually consistent with respect to the
// external enrichment worker's writes, and absence of an entry is the
// "not yet enriched" signal, never an error.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"suppsearch/internal/models"
)

const keyPrefix = "supplement:"

// Store is the durable tier. Implemented by *db.DB.
type Store interface {
	GetCacheEntry(ctx context.Context, supplementID string) (*models.CacheEntry, error)
	PutCacheEntry(ctx context.Context, supplementID string, payload json.RawMessage, ttl time.Duration) error
}

// FastStorage is the optional read-through tier. Satisfied by
// gofiber/storage/redis.
type FastStorage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
}

// Gateway reads and writes enriched entries keyed by supplement identifier.
// Callers must normalize before querying; keys are never free text.
type Gateway struct {
	store Store
	fast  FastStorage // nil disables the fast tier
}

// New creates a gateway over the durable store. fast may be nil.
func New(store Store, fast FastStorage) *Gateway {
	return &Gateway{store: store, fast: fast}
}

// Get returns the entry for a supplement identifier, or nil when no entry
// exists yet. The Redis tier is consulted first; any fault there degrades to
// the durable store and never fails the read. Durable-store faults return a
// *ReadError.
func (g *Gateway) Get(ctx context.Context, supplementID string) (*models.CacheEntry, error) {
	if g.fast != nil {
		if data, err := g.fast.Get(keyPrefix + supplementID); err != nil {
			slog.Error("redis read failed, falling back to durable store", "supplement", supplementID, "error", err)
		} else if len(data) > 0 {
			var entry models.CacheEntry
			if err := json.Unmarshal(data, &entry); err == nil {
				return &entry, nil
			}
			slog.Error("discarding undecodable redis entry", "supplement", supplementID)
		}
	}

	entry, err := g.store.GetCacheEntry(ctx, supplementID)
	if err != nil {
		return nil, &ReadError{Err: err}
	}
	if entry == nil {
		return nil, nil
	}

	g.backfill(entry)
	return entry, nil
}

// Put upserts an entry in the durable store and refreshes the Redis tier.
// In production the external worker owns this path; overwrites are
// idempotent. Durable-store faults return a *WriteError.
func (g *Gateway) Put(ctx context.Context, supplementID string, payload json.RawMessage, ttl time.Duration) error {
	if err := g.store.PutCacheEntry(ctx, supplementID, payload, ttl); err != nil {
		return &WriteError{Err: err}
	}

	g.backfill(&models.CacheEntry{
		SupplementID: supplementID,
		EnrichedData: payload,
		CreatedAt:    time.Now(),
		TTL:          ttl,
	})
	return nil
}

// backfill writes an entry to the Redis tier with whatever TTL it has left.
// Best effort: failures are logged and ignored.
func (g *Gateway) backfill(entry *models.CacheEntry) {
	if g.fast == nil {
		return
	}

	exp := entry.TTL
	if exp > 0 {
		exp = time.Until(entry.CreatedAt.Add(entry.TTL))
		if exp <= 0 {
			return
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := g.fast.Set(keyPrefix+entry.SupplementID, data, exp); err != nil {
		slog.Error("redis backfill failed", "supplement", entry.SupplementID, "error", err)
	}
}
