package app

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases s and strips diacritics, matching the store's
// accent- and case-insensitive collation. Transformers are stateful, so
// they are built per call.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return cases.Fold().String(out)
}

// containsFold reports whether needle occurs in haystack under fold.
func containsFold(haystack, needle string) bool {
	n := fold(needle)
	if n == "" {
		return false
	}
	return strings.Contains(fold(haystack), n)
}
