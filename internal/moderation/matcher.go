package moderation

import (
	"sort"
	"strings"
	"unicode"
)

// Match tests normalized text against a blocked set and returns the terms
// found, deduped and sorted so a given text always yields the same result.
// Matching is substring based, both against the text as-is and against the
// text with whitespace squeezed out, which catches split-up obfuscation
// like "an jing". Short terms can therefore fire inside unrelated words,
// a known precision/recall trade-off of the policy.
func Match(normalized string, blocked map[string]struct{}) []string {
	if normalized == "" || len(blocked) == 0 {
		return nil
	}

	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, normalized)

	var matched []string
	for term := range blocked {
		if term == "" {
			continue
		}
		if strings.Contains(normalized, term) || strings.Contains(compact, term) {
			matched = append(matched, term)
		}
	}
	sort.Strings(matched)
	return matched
}
