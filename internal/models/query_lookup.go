package models

import "time"

// Query lookup outcome constants
const (
	OutcomeInstant  = "instant"  // catalog hit with a cache entry, served immediately
	OutcomePipeline = "pipeline" // catalog hit, enrichment pipeline started
	OutcomeFallback = "fallback" // catalog miss, generic optimized parameters used
)

// QueryLookup represents a per-query hit count by outcome.
type QueryLookup struct {
	Query      string
	Outcome    string
	Count      int64
	LastSeenAt time.Time
}
