package textutil

import (
	"strings"
	"unicode"
)

// WordCount pairs a word with its occurrence count. Words are reported
// in order of first appearance.
type WordCount struct {
	Word  string
	Count int
}

// DefaultMinWordLength is the shortest word considered when counting
// repetitions. Shorter words (articles, particles) are ignored.
const DefaultMinWordLength = 3

// SplitWords splits s into lowercase words on any non-letter,
// non-digit boundary, after compare normalization.
func SplitWords(s string) []string {
	return strings.FieldsFunc(NormalizeForCompare(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// RepeatedWords returns every word of at least minLen characters that
// occurs more than once in s. minLen values below 1 fall back to
// DefaultMinWordLength.
func RepeatedWords(s string, minLen int) []WordCount {
	if minLen < 1 {
		minLen = DefaultMinWordLength
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range SplitWords(s) {
		if CharCount(w) < minLen {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	var repeated []WordCount
	for _, w := range order {
		if counts[w] > 1 {
			repeated = append(repeated, WordCount{Word: w, Count: counts[w]})
		}
	}
	return repeated
}

// MaxRepeat returns the highest single-word repetition count in the
// given set, or 0 when nothing repeats.
func MaxRepeat(words []WordCount) int {
	var max int
	for _, wc := range words {
		if wc.Count > max {
			max = wc.Count
		}
	}
	return max
}
