// Package similarity scores how alike two business names are.
package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Similarity returns the normalized Levenshtein similarity of a and b:
// 1 - distance/max(len(a), len(b)), measured in runes. Two empty strings are
// identical. The comparison is case-sensitive; use Fold first to ignore case.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 1.0
	}

	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = true
	d := lev.Distance(a, b)
	s := 1 - float64(d)/float64(longest)
	if s < 0 {
		return 0
	}
	return s
}

// Fold prepares a name for comparison: case folded, diacritics removed, and
// whitespace collapsed.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(folder.String(stripped)), " ")
}
