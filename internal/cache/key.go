package cache

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const keyPrefix = "prospect"

// Key builds the deterministic cache key for a search:
// prospect:{product}:{location}:{sortedParams}. Segments are lowercased,
// diacritic-folded, and space-collapsed so "Ressorts  Île-de-France" and
// "ressorts ile-de-france" address the same entry. Extra params are
// sorted before joining, so callers need not care about ordering.
func Key(product, location string, params ...string) string {
	segments := []string{keyPrefix, normalizeSegment(product), normalizeSegment(location)}

	cleaned := make([]string, 0, len(params))
	for _, p := range params {
		if n := normalizeSegment(p); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	sort.Strings(cleaned)
	segments = append(segments, strings.Join(cleaned, ","))

	return strings.Join(segments, ":")
}

// normalizeSegment folds a key segment: lowercase, strip diacritics,
// collapse whitespace runs to a single dash, drop the separator
// characters used by the key scheme.
func normalizeSegment(s string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	folded = strings.Map(func(r rune) rune {
		switch r {
		case ':', ',':
			return -1
		}
		return r
	}, folded)
	return strings.Join(strings.Fields(folded), "-")
}
