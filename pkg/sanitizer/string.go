// Package sanitizer normalizes caller-supplied text before validation and
// storage. Booking input arrives from a brittle free-text bridge, so names
// come with stray whitespace more often than not.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims leading/trailing whitespace and collapses internal
// whitespace runs to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName normalizes a person or provider name.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeSpecialty normalizes a specialty label.
func NormalizeSpecialty(s string) string {
	return TrimAndNormalize(s)
}

// NormalizeClock trims a caller-supplied HH:MM value. Format validation is
// the validator's job; this only strips whitespace.
func NormalizeClock(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeDate trims a caller-supplied YYYY-MM-DD value.
func NormalizeDate(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeReference trims and uppercases a booking reference so lookups are
// case-insensitive for callers reading the code back over chat.
func NormalizeReference(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
