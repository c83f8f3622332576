package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"suppsearch/internal/models"
)

func TestEnqueueDiscovery(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	item := &models.DiscoveryItem{
		SupplementID: "obscureroot",
		Query:        "obscureroot",
		PubmedQuery:  `"obscureroot"[Title/Abstract]`,
	}
	if err := db.EnqueueDiscovery(ctx, item); err != nil {
		t.Fatalf("EnqueueDiscovery() error = %v", err)
	}
	if item.ID == uuid.Nil {
		t.Error("EnqueueDiscovery() did not assign an id")
	}

	got, err := db.GetDiscoveryItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetDiscoveryItem() error = %v", err)
	}
	if got.Status != models.DiscoveryPending {
		t.Errorf("Status = %q, want pending", got.Status)
	}
	if got.SearchCount != 1 {
		t.Errorf("SearchCount = %d, want 1", got.SearchCount)
	}
}

func TestEnqueueDiscovery_DuplicatePendingIsBumped(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	first := &models.DiscoveryItem{SupplementID: "reishi", Query: "reishi", PubmedQuery: `"reishi"[Title/Abstract]`}
	if err := db.EnqueueDiscovery(ctx, first); err != nil {
		t.Fatalf("EnqueueDiscovery() first error = %v", err)
	}

	second := &models.DiscoveryItem{SupplementID: "reishi", Query: "ganoderma", PubmedQuery: `"reishi"[Title/Abstract]`}
	if err := db.EnqueueDiscovery(ctx, second); err != nil {
		t.Fatalf("EnqueueDiscovery() second error = %v", err)
	}

	got, err := db.GetDiscoveryItem(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetDiscoveryItem() error = %v", err)
	}
	if got.SearchCount != 2 {
		t.Errorf("SearchCount = %d, want 2 (duplicate should bump, not insert)", got.SearchCount)
	}

	var rows int
	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM discovery_queue WHERE supplement_id = 'reishi'
	`).Scan(&rows)
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if rows != 1 {
		t.Errorf("pending rows = %d, want 1", rows)
	}
}

func TestGetDiscoveryItem_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.GetDiscoveryItem(context.Background(), uuid.New())
	if err != ErrItemNotFound {
		t.Errorf("GetDiscoveryItem() error = %v, want ErrItemNotFound", err)
	}
}

func TestHasPendingDiscovery(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	pending, err := db.HasPendingDiscovery(ctx, "ashwagandha")
	if err != nil {
		t.Fatalf("HasPendingDiscovery() error = %v", err)
	}
	if pending {
		t.Error("empty queue should report no pending item")
	}

	item := &models.DiscoveryItem{SupplementID: "ashwagandha", Query: "ashwagandha", PubmedQuery: `"ashwagandha"[Title/Abstract]`}
	if err := db.EnqueueDiscovery(ctx, item); err != nil {
		t.Fatalf("EnqueueDiscovery() error = %v", err)
	}

	pending, err = db.HasPendingDiscovery(ctx, "ashwagandha")
	if err != nil {
		t.Fatalf("HasPendingDiscovery() error = %v", err)
	}
	if !pending {
		t.Error("queued item should report pending")
	}
}

func TestDeleteStaleDiscoveryItems(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	done := &models.DiscoveryItem{SupplementID: "done", Query: "done", PubmedQuery: `"done"[Title/Abstract]`}
	if err := db.EnqueueDiscovery(ctx, done); err != nil {
		t.Fatalf("EnqueueDiscovery() error = %v", err)
	}
	_, err := db.Pool.Exec(ctx, `
		UPDATE discovery_queue
		SET status = 'completed', created_at = NOW() - INTERVAL '7 days'
		WHERE id = $1
	`, done.ID)
	if err != nil {
		t.Fatalf("failed to mark item completed: %v", err)
	}

	// A pending item of the same age must survive the sweep.
	stuck := &models.DiscoveryItem{SupplementID: "stuck", Query: "stuck", PubmedQuery: `"stuck"[Title/Abstract]`}
	if err := db.EnqueueDiscovery(ctx, stuck); err != nil {
		t.Fatalf("EnqueueDiscovery() error = %v", err)
	}
	_, err = db.Pool.Exec(ctx, `
		UPDATE discovery_queue SET created_at = NOW() - INTERVAL '7 days' WHERE id = $1
	`, stuck.ID)
	if err != nil {
		t.Fatalf("failed to backdate item: %v", err)
	}

	removed, err := db.DeleteStaleDiscoveryItems(ctx, 72*time.Hour)
	if err != nil {
		t.Fatalf("DeleteStaleDiscoveryItems() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	if _, err := db.GetDiscoveryItem(ctx, stuck.ID); err != nil {
		t.Errorf("pending item should survive the sweep: %v", err)
	}
}

func TestIncrementQueryLookup(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := db.IncrementQueryLookup(ctx, "reishi", models.OutcomeInstant); err != nil {
			t.Fatalf("IncrementQueryLookup() error = %v", err)
		}
	}
	if err := db.IncrementQueryLookup(ctx, "reishi", models.OutcomePipeline); err != nil {
		t.Fatalf("IncrementQueryLookup() error = %v", err)
	}

	lookups, err := db.GetAllQueryLookups(ctx)
	if err != nil {
		t.Fatalf("GetAllQueryLookups() error = %v", err)
	}
	if len(lookups) != 2 {
		t.Fatalf("len(lookups) = %d, want 2", len(lookups))
	}

	counts := make(map[string]int64)
	for _, l := range lookups {
		counts[l.Outcome] = l.Count
	}
	if counts[models.OutcomeInstant] != 3 {
		t.Errorf("instant count = %d, want 3", counts[models.OutcomeInstant])
	}
	if counts[models.OutcomePipeline] != 1 {
		t.Errorf("pipeline count = %d, want 1", counts[models.OutcomePipeline])
	}
}
