// Package moderation implements the moderation decision engine: text
// normalization and blocked-term matching, warn escalation, sliding-window
// flood detection and the enforcer that turns all of it into decisions.
package moderation

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes raw message text for matching. It lowercases,
// deletes every rune outside [a-z0-9\s] (punctuation, emoji and non-Latin
// scripts vanish entirely) and collapses runs of 3+ identical runes down
// to 2, which defeats "koooontol"-style stretching while keeping
// legitimately doubled letters. Total and idempotent.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	var last rune
	run := 0
	for _, r := range strings.ToLower(text) {
		if !isMatchable(r) {
			continue
		}
		if r == last {
			run++
			if run >= 2 {
				continue
			}
		} else {
			last = r
			run = 0
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeTerm reduces a raw blocked-term candidate to [a-z0-9] only.
// Whitespace is deleted too, terms are single tokens. An empty result
// means the input was not a usable term.
func NormalizeTerm(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isMatchable(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || unicode.IsSpace(r)
}
