package models

import (
	"time"

	"github.com/google/uuid"
)

// Discovery queue status constants.
const (
	DiscoveryPending   = "pending"
	DiscoveryCompleted = "completed"
	DiscoveryFailed    = "failed"
)

// DiscoveryItem is one enrichment request handed off to the external worker.
// The worker drains pending items, computes the enriched result, and writes
// it to the supplement cache.
type DiscoveryItem struct {
	ID           uuid.UUID
	SupplementID string
	Query        string
	PubmedQuery  string
	Status       string
	SearchCount  int64
	CreatedAt    time.Time
}
