package listening

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases text, composes it to NFC, replaces punctuation and
// symbol runes with spaces and collapses whitespace.
func Normalize(text string) string {
	// A Caser is not safe for concurrent use, so build one per call.
	lowered := cases.Lower(language.Und).String(text)
	composed := norm.NFC.String(lowered)

	stripped := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return r
	}, composed)

	return strings.Join(strings.Fields(stripped), " ")
}

// Tokenize splits normalized text into words. Empty input yields an empty
// slice, never a slice holding one empty string.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return []string{}
	}
	return strings.Split(normalized, " ")
}
