package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRegexp = regexp.MustCompile(`[\s\p{Z}]+`)
	disallowedRegexp = regexp.MustCompile(`[^a-z0-9-]+`)
)

// Normalize turns display text (color names, size labels, category names)
// into a comparable identifier. It lowercases, strips diacritics through
// canonical decomposition, collapses whitespace runs into one hyphen and drops
// everything outside [a-z0-9-]. The result is stable under repeated calls.
//
// Examples:
//   - "Negro" → "negro"
//   - "Café Claro" → "cafe-claro"
//   - "Azul  Ñandú" → "azul-nandu"
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return ""
	}

	s = StripDiacritics(s)
	s = whitespaceRegexp.ReplaceAllString(s, "-")
	return disallowedRegexp.ReplaceAllString(s, "")
}

// StripDiacritics removes combining marks while keeping case and spacing:
// "Café Ñandú" → "Cafe Nandu".
func StripDiacritics(text string) string {
	// NFD splits "é" into "e" + U+0301; the combining mark is then removed.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return stripped
}

// Equal reports whether two display strings normalize to the same identifier.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
