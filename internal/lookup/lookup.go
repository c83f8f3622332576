// Package lookup answers "do we already know this substance, and can we
// serve instantly?" by composing the normalizer, the curated catalog, and
// the enrichment cache.
package lookup

import (
	"context"

	"suppsearch/internal/catalog"
	"suppsearch/internal/models"
	"suppsearch/internal/normalize"
)

// EntryGetter reads the enrichment cache. Implemented by *cache.Gateway.
type EntryGetter interface {
	Get(ctx context.Context, supplementID string) (*models.CacheEntry, error)
}

// Service resolves free-text queries against the catalog and cache.
type Service struct {
	catalog *catalog.Catalog
	cache   EntryGetter
}

// New creates a lookup service.
func New(cat *catalog.Catalog, cache EntryGetter) *Service {
	return &Service{catalog: cat, cache: cache}
}

// FastLookup normalizes raw and matches it against the catalog by normalized
// name, then by alias; first match wins. A miss still yields a valid result
// carrying generic optimized parameters, so the downstream pipeline never
// runs an unbounded search even for unknown substances.
func (s *Service) FastLookup(raw string) (models.NormalizedQuery, models.LookupResult) {
	nq := normalize.Normalize(raw)

	if rec, ok := s.catalog.Lookup(nq.Normalized); ok {
		return nq, models.LookupResult{
			Cached:         true,
			NormalizedName: rec.NormalizedName,
			ScientificName: rec.ScientificName,
			CommonNames:    rec.CommonNames,
			Category:       rec.Category,
			Popularity:     rec.Popularity,
			PubmedQuery:    rec.SearchQuery,
			PubmedFilters:  rec.SearchFilters,
		}
	}

	return nq, models.LookupResult{
		Cached:         false,
		NormalizedName: nq.Normalized,
		PubmedQuery:    catalog.OptimizedQuery(nq.Normalized),
		PubmedFilters:  catalog.DefaultFilters(),
	}
}

// CanServeInstantly is true iff the catalog knows the substance AND an
// enriched cache entry already exists for it. Knowing the substance alone is
// not sufficient to skip enrichment.
func (s *Service) CanServeInstantly(ctx context.Context, raw string) (bool, error) {
	entry, _, lr, err := s.InstantEntry(ctx, raw)
	if err != nil {
		return false, err
	}
	return lr.Cached && entry != nil, nil
}

// InstantEntry performs the same check as CanServeInstantly but hands back
// the cache entry alongside the normalized query and lookup result, so
// callers neither normalize nor read the cache twice.
func (s *Service) InstantEntry(ctx context.Context, raw string) (*models.CacheEntry, models.NormalizedQuery, models.LookupResult, error) {
	nq, lr := s.FastLookup(raw)
	if !lr.Cached {
		return nil, nq, lr, nil
	}
	entry, err := s.cache.Get(ctx, lr.NormalizedName)
	if err != nil {
		return nil, nq, lr, err
	}
	return entry, nq, lr, nil
}

// OptimizedParams returns the bounded external-search parameters for a raw
// query: the catalog's precomputed ones on a hit, the generic fallback on a
// miss.
func (s *Service) OptimizedParams(raw string) (string, models.SearchFilters) {
	_, lr := s.FastLookup(raw)
	return lr.PubmedQuery, lr.PubmedFilters
}
