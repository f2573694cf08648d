package lookup

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lower-cases name and strips every whitespace rune. The result is
// the exact-match index key and the slug used for guessed handles.
func Normalize(name string) string {
	return strings.Map(dropSpace, foldCase(name))
}

// foldCase applies full Unicode lower-casing. A Caser keeps internal state, so
// one is built per call instead of being shared across goroutines.
func foldCase(s string) string {
	return cases.Lower(language.Und).String(s)
}

// dropSpace removes the whitespace class browsers strip from company names:
// Unicode White_Space plus the byte order mark, but not NEL (U+0085).
func dropSpace(r rune) rune {
	switch {
	case r == '\uFEFF':
		return -1
	case r == '\u0085':
		return r
	case unicode.IsSpace(r):
		return -1
	}
	return r
}
