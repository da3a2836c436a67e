// Package textutil provides Unicode-aware normalization and counting
// helpers shared by the metadata generators and the SEO Bar engine.
// All counting operates on characters after normalization, never on
// raw byte length.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeForCompare prepares text for comparison and counting: it
// applies NFKC normalization, case folding, replaces punctuation and
// symbols with spaces, and collapses whitespace runs. Two strings that
// differ only in case, compatibility form, or punctuation compare equal
// after this transform.
func NormalizeForCompare(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// CountSubstring counts non-overlapping occurrences of needle in
// haystack after normalizing both sides. An empty needle counts zero.
func CountSubstring(haystack, needle string) int {
	needle = NormalizeForCompare(needle)
	if needle == "" {
		return 0
	}
	return strings.Count(NormalizeForCompare(haystack), needle)
}

// CharCount returns the number of characters in s, measured on the NFC
// normal form so combining sequences count once.
func CharCount(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}
