package seobar

import (
	"math"
	"strings"
)

// GuidelineRange holds the four ordered character thresholds for one
// meta field: lengths below Lower or above Upper grade bad, lengths
// between GoodLower and GoodUpper (inclusive) grade good, and the two
// bands in between grade okay.
type GuidelineRange struct {
	Lower     int `json:"lower"`
	GoodLower int `json:"goodLower"`
	GoodUpper int `json:"goodUpper"`
	Upper     int `json:"upper"`
}

// Guidelines holds the length guidance for both graded fields.
type Guidelines struct {
	Title       GuidelineRange `json:"title"`
	Description GuidelineRange `json:"description"`
}

// Base thresholds, expressed for alphabetic scripts.
var baseGuidelines = Guidelines{
	Title:       GuidelineRange{Lower: 25, GoodLower: 35, GoodUpper: 65, Upper: 75},
	Description: GuidelineRange{Lower: 45, GoodLower: 80, GoodUpper: 160, Upper: 320},
}

// localeFactors scales the base thresholds per locale prefix. Ideographic
// scripts convey far more per character, so their budgets halve.
// Unlisted locales use 1.0.
var localeFactors = map[string]float64{
	"ja_JP": 0.5,
	"ko_KR": 0.5,
	"zh_CN": 0.5,
	"zh_TW": 0.5,
	"zh_HK": 0.5,
}

// GuidelinesFor returns the guideline table for a locale, memoized in
// the shared cache per distinct locale string.
func GuidelinesFor(c *Cache, locale string) Guidelines {
	return memo(c, guidelineKey(locale), func() Guidelines {
		factor, ok := localeFactors[localePrefix(locale)]
		if !ok {
			return baseGuidelines
		}
		return Guidelines{
			Title:       scaleRange(baseGuidelines.Title, factor),
			Description: scaleRange(baseGuidelines.Description, factor),
		}
	})
}

// localePrefix normalizes a locale string to its 5-character
// language_REGION prefix, e.g. "ja-JP.UTF-8" → "ja_JP".
func localePrefix(locale string) string {
	locale = strings.ReplaceAll(locale, "-", "_")
	if len(locale) > 5 {
		locale = locale[:5]
	}
	return locale
}

func scaleRange(r GuidelineRange, factor float64) GuidelineRange {
	scale := func(v int) int {
		return int(math.Round(float64(v) * factor))
	}
	return GuidelineRange{
		Lower:     scale(r.Lower),
		GoodLower: scale(r.GoodLower),
		GoodUpper: scale(r.GoodUpper),
		Upper:     scale(r.Upper),
	}
}

// lengthGrade classifies a measured character count against a range.
type lengthGrade int

const (
	gradeFarTooShort lengthGrade = iota
	gradeTooShort
	gradeGood
	gradeTooLong
	gradeFarTooLong
)

func gradeLength(n int, r GuidelineRange) lengthGrade {
	switch {
	case n < r.Lower:
		return gradeFarTooShort
	case n < r.GoodLower:
		return gradeTooShort
	case n > r.Upper:
		return gradeFarTooLong
	case n > r.GoodUpper:
		return gradeTooLong
	default:
		return gradeGood
	}
}
