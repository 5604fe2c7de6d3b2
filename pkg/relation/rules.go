package relation

import (
	"strings"

	"github.com/relgraph/relgraph/pkg/config"
)

// triggerMatch records a trigger phrase found inside a sentence.
type triggerMatch struct {
	Rule  config.TriggerRule
	Start int
}

// matchTriggers finds every trigger phrase occurrence in the sentence,
// case-insensitively and on word boundaries.
func matchTriggers(sentence string, rules []config.TriggerRule) []triggerMatch {
	lower := strings.ToLower(sentence)
	var matches []triggerMatch
	for _, rule := range rules {
		needle := strings.ToLower(rule.Phrase)
		for idx := 0; ; {
			found := strings.Index(lower[idx:], needle)
			if found < 0 {
				break
			}
			start := idx + found
			idx = start + len(needle)
			if !isWordBoundary(lower, start, start+len(needle)) {
				continue
			}
			matches = append(matches, triggerMatch{Rule: rule, Start: start})
		}
	}
	return matches
}

// containsAny reports whether the text contains any of the phrases,
// case-insensitively.
func containsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// countContains counts how many of the phrases appear in the text.
func countContains(text string, phrases []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			n++
		}
	}
	return n
}
