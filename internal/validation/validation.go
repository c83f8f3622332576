package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxQueryLength bounds free-text queries at the boundary.
const MaxQueryLength = 200

// SupplementIDPattern defines the valid supplement identifier format: words
// joined by spaces or hyphens, with apostrophes allowed ("lion's mane",
// "café verde"). Identifiers are normalized names, never free text, so the
// rune classes mirror what the normalizer emits: lowercase and caseless
// letters in any script, plus digits.
var SupplementIDPattern = regexp.MustCompile(`^[\p{Ll}\p{Lo}\p{Lm}\p{N}]([\p{Ll}\p{Lo}\p{Lm}\p{N} '-]*[\p{Ll}\p{Lo}\p{Lm}\p{N}])?$`)

// ValidateQuery checks a raw free-text query at the request boundary.
func ValidateQuery(query string) (bool, string) {
	if strings.TrimSpace(query) == "" {
		return false, "query parameter \"q\" is required"
	}
	if len(query) > MaxQueryLength {
		return false, "query too long (max 200 characters)"
	}
	if !hasLetterOrDigit(query) {
		return false, "query must contain at least one letter or digit"
	}
	return true, ""
}

// ValidateSupplementID checks a supplement identifier request parameter.
func ValidateSupplementID(id string) bool {
	if id == "" || len(id) > 100 {
		return false
	}
	return SupplementIDPattern.MatchString(id)
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
