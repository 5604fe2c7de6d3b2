package common

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// NormalizeText case-folds and NFKC-normalizes a string and collapses
// interior whitespace. It is the shared normal form for dedupe keys,
// similarity comparison, and graph node identifiers.
func NormalizeText(s string) string {
	s = norm.NFKC.String(s)
	s = foldCaser.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeName normalizes an entity name and strips leading honorifics,
// so "Dr. Sarah Chen" and "sarah chen" share a normal form.
func NormalizeName(name string, honorifics []string) string {
	trimmed := strings.TrimSpace(name)
	for changed := true; changed; {
		changed = false
		for _, h := range honorifics {
			if len(trimmed) > len(h) && strings.HasPrefix(trimmed, h) && trimmed[len(h)] == ' ' {
				trimmed = strings.TrimSpace(trimmed[len(h):])
				changed = true
			}
		}
	}
	return NormalizeText(trimmed)
}

// Tokens splits normalized text into word tokens.
func Tokens(s string) []string {
	return strings.Fields(NormalizeText(s))
}
