// Package slug derives the natural keys used to identify back-office records.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)
	whitespaceRegex      = regexp.MustCompile(`\s+`)
)

// Fold strips diacritics, lowercases and collapses whitespace.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	result = strings.ToLower(result)
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// Make turns a display name into a slug: "Padaria São João" -> "padaria-sao-joao".
func Make(s string) string {
	return strings.Trim(nonAlphanumericRegex.ReplaceAllString(Fold(s), "-"), "-")
}

// Valid reports whether s is already in slug form.
func Valid(s string) bool {
	return s != "" && Make(s) == s
}
