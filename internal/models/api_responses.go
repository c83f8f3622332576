package models

import (
	"encoding/json"
	"time"
)

// Status endpoint status values.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// StageTiming reports how long one internal stage took.
type StageTiming struct {
	Stage     string `json:"stage"`
	ElapsedMs int64  `json:"elapsed_ms"`
	TimedOut  bool   `json:"timed_out,omitempty"`
}

// LookupResponse contains the result of a lookup query.
type LookupResponse struct {
	Query   NormalizedQuery `json:"query"`
	Result  LookupResult    `json:"result"`
	Instant bool            `json:"instant"`
	JobID   string          `json:"job_id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Timings []StageTiming   `json:"timings,omitempty"`
	TotalMs int64           `json:"total_ms"`
}

// StatusMetadata describes a completed cache entry.
type StatusMetadata struct {
	CachedAt   time.Time `json:"cached_at"`
	TTLSeconds int64     `json:"ttl_seconds"`
}

// StatusResponse is the polling protocol payload.
type StatusResponse struct {
	Success    bool            `json:"success"`
	Status     string          `json:"status"`
	JobID      string          `json:"job_id"`
	Supplement string          `json:"supplement"`
	Data       json.RawMessage `json:"data,omitempty"`
	Metadata   *StatusMetadata `json:"metadata,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// PreloadResponse reports the result of an admin preload run.
type PreloadResponse struct {
	Queued  int `json:"queued"`
	Skipped int `json:"skipped"`
}
