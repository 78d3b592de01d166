package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateFallback selects what ParseDate returns when every parsing rule fails.
type DateFallback int

const (
	// FallbackEpoch returns the sentinel date. Sentinel-dated records sort
	// first and are excluded from date-range calculations.
	FallbackEpoch DateFallback = iota
	// FallbackNow returns the current date, for callers that still need a
	// plottable point.
	FallbackNow
)

// SentinelDate marks a record whose date could not be parsed.
var SentinelDate = time.Unix(0, 0).UTC()

// IsSentinel reports whether t is the unparseable-date marker.
func IsSentinel(t time.Time) bool {
	return t.Equal(SentinelDate)
}

func isDateSep(r rune) bool {
	return r == '/' || r == '-'
}

// ParseDate converts free-form date text into a calendar date. It never
// fails; unparseable input yields the fallback for the given policy.
//
// Rules, first match wins:
//
//  1. Three segments with a 4-digit year first: year/month/day, taken as-is.
//  2. Three segments with a 4-digit year last: day-first (31/1/2026 is
//     Jan 31). If the constructed month disagrees with segment two, segment
//     two exceeded 12 and the segments are re-read month-first.
//  3. Three segments with a 2-digit year last: year = 2000+YY, then
//     day-first with the same month-first re-read as rule 2, so "12/31/99"
//     resolves to 2099-12-31 rather than falling through.
//  4. Anything else goes through the generic free-text parser.
//
// Inputs like "05/06/2026", where either leading segment could be the month,
// are genuinely ambiguous; day-first is assumed with no further inference.
func ParseDate(text string, fallback DateFallback) time.Time {
	s := strings.TrimSpace(text)
	if s == "" {
		return fallbackDate(fallback)
	}

	if segs := strings.FieldsFunc(s, isDateSep); len(segs) == 3 {
		if nums, ok := numericSegments(segs); ok {
			switch {
			case len(segs[0]) == 4:
				return time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.UTC)
			case len(segs[2]) == 4:
				return dayFirstDate(nums[0], nums[1], nums[2])
			case len(segs[2]) == 2:
				return dayFirstDate(nums[0], nums[1], 2000+nums[2])
			}
		}
	}

	if t, err := dateparse.ParseAny(s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}

	return fallbackDate(fallback)
}

// dayFirstDate builds a date from day/month/year segments, falling back to a
// month/day/year reading when the month segment is out of range. The check
// is construct-then-compare: time.Date normalizes an overflowing month, so a
// changed month means segment two was not a month.
func dayFirstDate(day, month, year int) time.Time {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) {
		return time.Date(year, time.Month(day), month, 0, 0, 0, 0, time.UTC)
	}
	return t
}

func numericSegments(segs []string) ([3]int, bool) {
	var nums [3]int
	for i, seg := range segs {
		n, err := strconv.Atoi(seg)
		if err != nil {
			return nums, false
		}
		nums[i] = n
	}
	return nums, true
}

func fallbackDate(fallback DateFallback) time.Time {
	if fallback == FallbackNow {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return SentinelDate
}
