package refdata

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Drug and test names arrive from several sources (catalog files, user
// input, spoken-note transcriptions) with inconsistent casing and the
// occasional accented character. Every index key goes through the same
// fold so lookups stay consistent.
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName lowercases, trims and strips combining accents from a
// drug, class, condition or test name.
func NormalizeName(name string) string {
	folded, _, err := transform.String(accentStripper, name)
	if err != nil {
		// Fold failure just means we index the raw string.
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
