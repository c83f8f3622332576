package models

import (
	"encoding/json"
	"time"
)

// CacheEntry is one enriched result in the durable supplement cache.
// Written by the external enrichment worker; read by lookups and status
// checks. Absence of an entry for a key means "not yet enriched".
type CacheEntry struct {
	SupplementID string          `json:"supplement_id"`
	EnrichedData json.RawMessage `json:"enriched_data"`
	CreatedAt    time.Time       `json:"created_at"`
	TTL          time.Duration   `json:"ttl"`
}

// Expired reports whether the entry's TTL has elapsed relative to now.
func (e *CacheEntry) Expired(now time.Time) bool {
	return e.TTL > 0 && now.After(e.CreatedAt.Add(e.TTL))
}
