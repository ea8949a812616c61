// Package slug turns free text into URL-safe identifiers used for page
// file stems and in-page heading anchors.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make lowercases text, strips diacritics, collapses every run of characters
// outside [a-z0-9] into a single hyphen and trims hyphens from both ends.
//
// Make is total: empty input yields an empty slug. Two different inputs may
// produce the same slug; callers that need uniqueness must resolve it.
func Make(text string) string {
	folded := foldMarks(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for i := 0; i < len(folded); i++ {
		c := folded[i]
		if isSlugByte(c) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteByte(c)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// foldMarks decomposes text and drops combining marks, so "é" becomes "e".
func foldMarks(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, text)
	if err != nil {
		// Invalid UTF-8 sequences are simply treated as separators below.
		return text
	}
	return out
}

func isSlugByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
