package jobs

import (
	"context"
	"log"
	"time"

	"suppsearch/internal/db"
)

// Janitor removes expired cache entries and stale discovery-queue items in
// the background. The cache read path already treats expired entries as
// absent, so the sweep is purely about reclaiming space.
type Janitor struct {
	db          *db.DB
	interval    time.Duration
	queueMaxAge time.Duration
}

// NewJanitor creates a new janitor.
func NewJanitor(database *db.DB, interval, queueMaxAge time.Duration) *Janitor {
	return &Janitor{
		db:          database,
		interval:    interval,
		queueMaxAge: queueMaxAge,
	}
}

// Start begins the background sweep loop.
func (j *Janitor) Start(ctx context.Context) {
	log.Printf("Janitor started (interval: %v, queueMaxAge: %v)", j.interval, j.queueMaxAge)

	// Run immediately on start
	j.sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Janitor stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

// sweep runs one cleanup pass.
func (j *Janitor) sweep(ctx context.Context) {
	removed, err := j.db.DeleteExpiredCacheEntries(ctx)
	if err != nil {
		log.Printf("Janitor: failed to delete expired cache entries: %v", err)
	} else if removed > 0 {
		log.Printf("Janitor: removed %d expired cache entries", removed)
	}

	removed, err = j.db.DeleteStaleDiscoveryItems(ctx, j.queueMaxAge)
	if err != nil {
		log.Printf("Janitor: failed to delete stale discovery items: %v", err)
	} else if removed > 0 {
		log.Printf("Janitor: removed %d stale discovery items", removed)
	}
}
