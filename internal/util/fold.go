package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Fold normalizes a string for case-insensitive matching.
//   - Applies Unicode case folding
//   - Removes accents (so "Zoë" matches "zoe")
//   - Trims surrounding whitespace
func Fold(s string) string {
	return removeAccents(folder.String(strings.TrimSpace(s)))
}

// ContainsFold reports whether needle occurs in haystack, ignoring case and accents.
// A blank needle matches everything.
func ContainsFold(haystack, needle string) bool {
	n := Fold(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Fold(haystack), n)
}

// removeAccents removes diacritical marks from unicode characters.
func removeAccents(s string) string {
	// Decompose unicode characters (NFD normalization)
	result := norm.NFD.String(s)

	// Remove combining characters (accents, diacritics)
	var b strings.Builder
	for _, r := range result {
		if !unicode.Is(unicode.Mn, r) { // Mn = Mark, Nonspacing
			b.WriteRune(r)
		}
	}

	return b.String()
}
