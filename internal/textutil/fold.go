// Package textutil holds small text helpers shared by the location,
// fallback and normalize packages.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripDiacritics removes combining marks: "Île-de-France" → "Ile-de-France".
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold lowercases, strips diacritics and collapses whitespace, for
// comparisons that should ignore case and accents.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(StripDiacritics(s))), " ")
}

// Words splits s into lowercase ASCII-folded words, dropping punctuation.
func Words(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
