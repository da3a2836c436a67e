package seobar

import "fmt"

// lengthMessages holds the per-grade assessment templates; each takes
// the measured character count.
type lengthMessages struct {
	farTooShort string
	tooShort    string
	good        string
	tooLong     string
	farTooLong  string
}

// lengthReasons holds the terminal reasons per out-of-range grade.
type lengthReasons struct {
	farTooShort string
	tooShort    string
	tooLong     string
	farTooLong  string
}

// applyLengthGrade grades a measured character count and folds the
// outcome into the verdict. A good length leaves status and reason
// untouched and only records the measurement.
func applyLengthGrade(v *Verdict, n int, r GuidelineRange, msgs lengthMessages, reasons lengthReasons) {
	switch gradeLength(n, r) {
	case gradeFarTooShort:
		v.Status = StatusBad
		v.Reason = reasons.farTooShort
		v.Assess.Set(assessLength, fmt.Sprintf(msgs.farTooShort, n))
	case gradeTooShort:
		v.Status = StatusOkay
		v.Reason = reasons.tooShort
		v.Assess.Set(assessLength, fmt.Sprintf(msgs.tooShort, n))
	case gradeTooLong:
		v.Status = StatusOkay
		v.Reason = reasons.tooLong
		v.Assess.Set(assessLength, fmt.Sprintf(msgs.tooLong, n))
	case gradeFarTooLong:
		v.Status = StatusBad
		v.Reason = reasons.farTooLong
		v.Assess.Set(assessLength, fmt.Sprintf(msgs.farTooLong, n))
	default:
		v.Assess.Set(assessLength, fmt.Sprintf(msgs.good, n))
	}
}
