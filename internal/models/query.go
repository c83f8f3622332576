package models

// Correction records a single transformation applied during normalization.
// The pair carries enough detail to reconstruct the change.
type Correction struct {
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
}

// NormalizedQuery is the canonical form of a free-text search term.
// Produced once per request and never persisted.
type NormalizedQuery struct {
	Normalized  string       `json:"normalized"`
	Confidence  float64      `json:"confidence"`
	Corrections []Correction `json:"corrections"`
}
