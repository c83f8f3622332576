package catalog

import (
	"fmt"
	"strings"

	"suppsearch/internal/models"
)

// Generic fallback search parameters. These bound the external search even
// for substances the catalog has never heard of.
const (
	DefaultYearFrom   = 2010
	DefaultMaxStudies = 20
)

// OptimizedQuery builds a bounded PubMed query for a normalized term. Short
// terms become an exact phrase search; longer free text is anchored to
// supplementation literature so the search never runs unbounded.
func OptimizedQuery(term string) string {
	clean := strings.ReplaceAll(term, " supplementation", "")
	clean = strings.ReplaceAll(clean, " supplement", "")
	clean = strings.TrimSpace(clean)

	if len(strings.Fields(clean)) <= 3 {
		return fmt.Sprintf("%q[Title/Abstract]", clean)
	}
	return clean + " AND (supplement[Title/Abstract] OR supplementation[Title/Abstract])"
}

// DefaultFilters returns the conservative filters applied on a catalog miss:
// a default year threshold, a modest study cap, and no forced RCT filter.
func DefaultFilters() models.SearchFilters {
	return models.SearchFilters{
		YearFrom:   DefaultYearFrom,
		RCTOnly:    false,
		MaxStudies: DefaultMaxStudies,
	}
}
