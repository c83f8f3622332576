// Package catalog holds the curated supplement lookup table.
//
// The table is a data asset, not logic: it ships as a YAML file (an embedded
// default, overridable via CATALOG_FILE) and is loaded once at startup.
// Records are read-only at request time.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"suppsearch/internal/models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog indexes curated supplement records by normalized name and by every
// common-name alias. Aliases resolve to the same record.
type Catalog struct {
	records []models.Supplement
	index   map[string]*models.Supplement
}

type catalogFile struct {
	Supplements []models.Supplement `yaml:"supplements"`
}

// Load reads the catalog from path, falling back to the embedded default
// when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse builds a catalog from raw YAML.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Supplements) == 0 {
		return nil, fmt.Errorf("catalog contains no supplements")
	}

	c := &Catalog{
		records: f.Supplements,
		index:   make(map[string]*models.Supplement, len(f.Supplements)*2),
	}

	for i := range c.records {
		rec := &c.records[i]
		rec.NormalizedName = strings.ToLower(strings.TrimSpace(rec.NormalizedName))
		if rec.NormalizedName == "" {
			return nil, fmt.Errorf("catalog record %d has no name", i)
		}
		if rec.SearchQuery == "" {
			rec.SearchQuery = OptimizedQuery(rec.NormalizedName)
		}
		if rec.SearchFilters == (models.SearchFilters{}) {
			rec.SearchFilters = DefaultFilters()
		}
		// Primary names win over aliases from earlier records.
		c.index[rec.NormalizedName] = rec
	}
	for i := range c.records {
		rec := &c.records[i]
		for _, alias := range rec.CommonNames {
			key := strings.ToLower(strings.TrimSpace(alias))
			if key == "" {
				continue
			}
			if _, taken := c.index[key]; !taken {
				c.index[key] = rec
			}
		}
	}

	return c, nil
}

// Lookup finds a record by normalized name or alias. Callers must normalize
// the query first.
func (c *Catalog) Lookup(normalized string) (*models.Supplement, bool) {
	rec, ok := c.index[normalized]
	return rec, ok
}

// Len returns the number of curated records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// ByPopularity returns all records at the given popularity level, in catalog
// order. Used by the admin preload path.
func (c *Catalog) ByPopularity(level string) []*models.Supplement {
	var out []*models.Supplement
	for i := range c.records {
		if c.records[i].Popularity == level {
			out = append(out, &c.records[i])
		}
	}
	return out
}
