// Package normalize canonicalizes free-text supplement queries.
package normalize

import (
	"strings"
	"unicode"

	"suppsearch/internal/models"
)

// Confidence penalties by correction severity.
const (
	spellingPenalty    = 0.15
	punctuationPenalty = 0.05
	minConfidence      = 0.1
)

// Normalize canonicalizes a raw query: lowercases, trims, collapses
// whitespace, strips disallowed punctuation, and applies the known-correction
// table token by token. Every applied correction is recorded. Confidence is
// 1.0 for already-canonical input and decreases with each correction; empty
// or whitespace-only input yields a zero-confidence result, never an error.
func Normalize(raw string) models.NormalizedQuery {
	trimmed := strings.TrimSpace(strings.ToLower(raw))
	if trimmed == "" {
		return models.NormalizedQuery{Confidence: 0}
	}

	confidence := 1.0
	var applied []models.Correction

	cleaned := stripPunctuation(trimmed)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned != trimmed {
		applied = append(applied, models.Correction{Original: trimmed, Replacement: cleaned})
		confidence -= punctuationPenalty
	}

	tokens := strings.Fields(cleaned)
	for i, tok := range tokens {
		if repl, ok := corrections[tok]; ok {
			applied = append(applied, models.Correction{Original: tok, Replacement: repl})
			confidence -= spellingPenalty
			tokens[i] = repl
		}
	}

	if cleaned == "" {
		return models.NormalizedQuery{Confidence: 0, Corrections: applied}
	}

	if confidence < minConfidence {
		confidence = minConfidence
	}

	return models.NormalizedQuery{
		Normalized:  strings.Join(tokens, " "),
		Confidence:  confidence,
		Corrections: applied,
	}
}

// stripPunctuation removes characters that never appear in supplement names.
// Hyphens and apostrophes are kept ("omega-3", "lion's mane").
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '\'':
			b.WriteRune(r)
		case r >= 0x80 && (unicode.IsLetter(r) || unicode.IsNumber(r)):
			// Keep non-ASCII letters; queries arrive in multiple languages.
			// Symbols and emoji are punctuation as far as names go.
			b.WriteRune(r)
		}
	}
	return b.String()
}
