package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"suppsearch/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Ping checks database connectivity.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedDevCache inserts a few enriched entries for development so instant
// lookups can be exercised without the external worker running.
func (d *DB) SeedDevCache(ctx context.Context) error {
	entries := []struct {
		supplementID string
		payload      map[string]any
	}{
		{"vitamin d", map[string]any{"summary": "dev seed", "evidence_grade": "A", "study_count": 52}},
		{"reishi", map[string]any{"summary": "dev seed", "evidence_grade": "B", "study_count": 17}},
		{"creatine", map[string]any{"summary": "dev seed", "evidence_grade": "A", "study_count": 44}},
	}

	for _, e := range entries {
		data, err := json.Marshal(e.payload)
		if err != nil {
			return fmt.Errorf("failed to marshal seed payload: %w", err)
		}
		if err := d.PutCacheEntry(ctx, e.supplementID, data, 7*24*time.Hour); err != nil {
			return fmt.Errorf("failed to seed cache entry %s: %w", e.supplementID, err)
		}
	}

	return nil
}
