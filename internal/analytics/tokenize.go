// Package analytics provides the pure review-analytics computations:
// aggregation, health scoring, period comparison, and trend analysis.
package analytics

import "strings"

// tokenDelimiters is the fixed delimiter set for theme and staff-mention
// fields. The tokenizer contract: split on any delimiter, trim space, drop
// empties. Keys are case-folded; display casing is first-seen.
const tokenDelimiters = ",;|"

// Tokenize splits a delimiter-separated field into clean tokens.
func Tokenize(field string) []string {
	if field == "" {
		return nil
	}
	parts := strings.FieldsFunc(field, func(r rune) bool {
		return strings.ContainsRune(tokenDelimiters, r)
	})
	var tokens []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// tokenKey returns the case-folded aggregation key for a token.
func tokenKey(token string) string {
	return strings.ToLower(token)
}
