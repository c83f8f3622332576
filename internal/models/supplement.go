package models

// Popularity levels for catalog records.
const (
	PopularityHigh   = "high"
	PopularityMedium = "medium"
	PopularityLow    = "low"
)

// SearchFilters bound an external PubMed search.
type SearchFilters struct {
	YearFrom   int  `json:"year_from" yaml:"year_from"`
	RCTOnly    bool `json:"rct_only" yaml:"rct_only"`
	MaxStudies int  `json:"max_studies" yaml:"max_studies"`
}

// Supplement is one curated catalog record. Keyed by normalized name;
// every common name resolves to the same record.
type Supplement struct {
	NormalizedName string        `yaml:"name"`
	ScientificName string        `yaml:"scientific_name"`
	CommonNames    []string      `yaml:"common_names"`
	Category       string        `yaml:"category"`
	Popularity     string        `yaml:"popularity"`
	SearchQuery    string        `yaml:"search_query"`
	SearchFilters  SearchFilters `yaml:"search_filters"`
}

// LookupResult is the outcome of a fast lookup. Cached is true iff a catalog
// record matched; a miss is still a valid result carrying generic optimized
// search parameters, never an error.
type LookupResult struct {
	Cached         bool          `json:"cached"`
	NormalizedName string        `json:"normalized_name"`
	ScientificName string        `json:"scientific_name,omitempty"`
	CommonNames    []string      `json:"common_names,omitempty"`
	Category       string        `json:"category,omitempty"`
	Popularity     string        `json:"popularity,omitempty"`
	PubmedQuery    string        `json:"pubmed_query"`
	PubmedFilters  SearchFilters `json:"pubmed_filters"`
}
