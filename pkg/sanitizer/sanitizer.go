// Package sanitizer normalizes free-text fields arriving from the
// reporting forms before they reach validation. Guest payload text is
// stored as submitted by operators, so it gets whitespace and casing
// cleanup but no semantic rewriting.
package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// TrimAndCollapse trims leading/trailing whitespace and collapses internal
// runs of whitespace to a single space, dropping control characters.
func TrimAndCollapse(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		switch {
		case unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		default:
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return strings.TrimSpace(result.String())
}

func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
