package dataprocessing

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// rocYearOffset converts a Minguo (Republic of China) calendar year to
// its Gregorian equivalent: ROC year 1 is 1912.
const rocYearOffset = 1911

// eraMarkers are stripped before separator normalization.
var eraMarkers = []string{"中華民國", "民國", "民国"}

var rocTriple = regexp.MustCompile(`(\d{1,3})/(\d{1,2})/(\d{1,2})`)

// ParseROCDate converts a Minguo calendar date string to a Gregorian
// time. It accepts slash, dash or dot separators as well as the
// 年/月/日 marker form ("民國115年01月09日"), extracts the first
// digit-bounded era_year/month/day triple, adds the 1911-year offset,
// and validates the result as a real calendar date.
//
// Parsing is best-effort: ok is false on any failure and the caller
// falls back to the processing date. The source document does not
// always carry an explicit data date, so this is not an error.
func ParseROCDate(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}

	for _, marker := range eraMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}

	// Collapse every separator variant to a single delimiter.
	replacer := strings.NewReplacer(
		"年", "/",
		"月", "/",
		"日", "",
		"-", "/",
		".", "/",
	)
	s = replacer.Replace(s)

	// Go regexp has no lookbehind, so every candidate triple is
	// boundary-checked by hand: a triple flanked by further digits is a
	// fragment of a longer number, typically a Gregorian date like
	// "2026/01/09" whose tail would otherwise parse as ROC year 26.
	for _, loc := range rocTriple.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] > 0 && isASCIIDigit(s[loc[0]-1]) {
			continue
		}
		if loc[1] < len(s) && isASCIIDigit(s[loc[1]]) {
			continue
		}
		if date, ok := buildROCDate(s[loc[2]:loc[3]], s[loc[4]:loc[5]], s[loc[6]:loc[7]]); ok {
			return date, true
		}
	}
	return time.Time{}, false
}

func buildROCDate(yearStr, monthStr, dayStr string) (time.Time, bool) {
	eraYear, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, false
	}

	if eraYear <= 0 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	year := eraYear + rocYearOffset
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range days (Feb 30 → Mar 2); reject
	// anything that did not survive unchanged.
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, false
	}

	return date, true
}

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }
