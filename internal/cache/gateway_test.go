package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"suppsearch/internal/models"
)

type fakeStore struct {
	entries map[string]*models.CacheEntry
	getErr  error
	putErr  error
	reads   int
}

func (s *fakeStore) GetCacheEntry(ctx context.Context, id string) (*models.CacheEntry, error) {
	s.reads++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.entries[id], nil
}

func (s *fakeStore) PutCacheEntry(ctx context.Context, id string, payload json.RawMessage, ttl time.Duration) error {
	if s.putErr != nil {
		return s.putErr
	}
	if s.entries == nil {
		s.entries = make(map[string]*models.CacheEntry)
	}
	s.entries[id] = &models.CacheEntry{
		SupplementID: id,
		EnrichedData: payload,
		CreatedAt:    time.Now(),
		TTL:          ttl,
	}
	return nil
}

// fakeStorage implements FastStorage over a map.
type fakeStorage struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{data: make(map[string][]byte)}
}

func (f *fakeStorage) Get(key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.data[key], nil
}

func (f *fakeStorage) Set(key string, val []byte, exp time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = val
	return nil
}

func TestGetAbsentIsNotAnError(t *testing.T) {
	g := New(&fakeStore{}, nil)

	entry, err := g.Get(context.Background(), "reishi")
	if err != nil {
		t.Fatalf("Get() error = %v, want nil for absence", err)
	}
	if entry != nil {
		t.Errorf("Get() = %+v, want nil", entry)
	}
}

func TestGetStoreFaultIsReadError(t *testing.T) {
	g := New(&fakeStore{getErr: errors.New("connection refused")}, nil)

	_, err := g.Get(context.Background(), "reishi")
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("Get() error = %v, want *ReadError", err)
	}
}

func TestPutThenGet(t *testing.T) {
	g := New(&fakeStore{}, nil)
	ctx := context.Background()
	payload := json.RawMessage(`{"evidence_grade":"A"}`)

	if err := g.Put(ctx, "creatine", payload, time.Hour); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	entry, err := g.Get(ctx, "creatine")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if entry == nil {
		t.Fatal("Get() = nil after Put")
	}
	if string(entry.EnrichedData) != string(payload) {
		t.Errorf("EnrichedData = %s, want %s", entry.EnrichedData, payload)
	}
	if entry.TTL != time.Hour {
		t.Errorf("TTL = %v, want 1h", entry.TTL)
	}
}

func TestPutStoreFaultIsWriteError(t *testing.T) {
	g := New(&fakeStore{putErr: errors.New("disk full")}, nil)

	err := g.Put(context.Background(), "creatine", json.RawMessage(`{}`), time.Hour)
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("Put() error = %v, want *WriteError", err)
	}
}

func TestFastTierServesWithoutStoreRead(t *testing.T) {
	store := &fakeStore{}
	fast := newFakeStorage()
	g := New(store, fast)
	ctx := context.Background()

	if err := g.Put(ctx, "reishi", json.RawMessage(`{"x":1}`), time.Hour); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	entry, err := g.Get(ctx, "reishi")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if entry == nil {
		t.Fatal("Get() = nil, want fast-tier hit")
	}
	if store.reads != 0 {
		t.Errorf("durable store read %d times, want 0 (fast tier should serve)", store.reads)
	}
}

func TestFastTierFaultDegradesToStore(t *testing.T) {
	store := &fakeStore{}
	store.PutCacheEntry(context.Background(), "reishi", json.RawMessage(`{"x":1}`), time.Hour)

	fast := newFakeStorage()
	fast.getErr = errors.New("redis down")
	g := New(store, fast)

	entry, err := g.Get(context.Background(), "reishi")
	if err != nil {
		t.Fatalf("Get() error = %v, want degraded read to succeed", err)
	}
	if entry == nil {
		t.Fatal("Get() = nil, want durable-store hit")
	}
}

func TestStoreHitBackfillsFastTier(t *testing.T) {
	store := &fakeStore{}
	store.PutCacheEntry(context.Background(), "reishi", json.RawMessage(`{"x":1}`), time.Hour)

	fast := newFakeStorage()
	g := New(store, fast)

	if _, err := g.Get(context.Background(), "reishi"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, ok := fast.data[keyPrefix+"reishi"]; !ok {
		t.Error("fast tier not backfilled after durable-store hit")
	}
}
