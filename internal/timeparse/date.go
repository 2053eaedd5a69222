// Package timeparse turns free-form English scheduling text into concrete
// dates, times of day, and durations. All functions are pure: the caller
// supplies the reference "now" and the parsers never consult the wall clock.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/timebuddy-app/timebuddy/internal/domain"
)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdayIndex = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

var (
	monthDayRe = regexp.MustCompile(`\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	slashRe    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	weekdayRe  = regexp.MustCompile(`\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tues|tue|wed|thurs|thu|fri|sat|sun)\b`)
	inDaysRe   = regexp.MustCompile(`\bin\s+(\d+)\s+days?\b`)
	inWeeksRe  = regexp.MustCompile(`\bin\s+(\d+)\s+weeks?\b`)
	tomorrowRe = regexp.MustCompile(`\b(?:tomorrow|tmr)\b`)
	todayRe    = regexp.MustCompile(`\b(?:today|tonight)\b`)
	nextWeekRe = regexp.MustCompile(`\bnext\s+week\b`)
)

// InferDate extracts a calendar date from text relative to reference,
// returned in YYYY-MM-DD form. It never fails: text with no recognizable
// date yields the reference date itself (lenient default).
//
// Priority: today/tonight, tomorrow, weekday names (always the next
// occurrence strictly after reference, never same-day), explicit
// month+day (rolling to next year if already past), slash dates, then a
// small set of relative phrases.
func InferDate(text string, reference time.Time) string {
	date, _ := InferDateOk(text, reference)
	return date
}

// InferDateOk is InferDate with an explicit hit report: ok is false when
// no date pattern matched and the reference date was returned as-is.
// Callers that combine several text fragments use it to pick the first
// fragment that actually names a date.
func InferDateOk(text string, reference time.Time) (string, bool) {
	lower := strings.ToLower(text)
	ref := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)

	if todayRe.MatchString(lower) {
		return ref.Format(domain.DateLayout), true
	}
	if tomorrowRe.MatchString(lower) {
		return ref.AddDate(0, 0, 1).Format(domain.DateLayout), true
	}

	if m := weekdayRe.FindStringSubmatch(lower); m != nil {
		target := weekdayIndex[m[1]]
		ahead := int(target) - int(ref.Weekday())
		if ahead <= 0 {
			ahead += 7
		}
		return ref.AddDate(0, 0, ahead).Format(domain.DateLayout), true
	}

	if m := monthDayRe.FindStringSubmatch(lower); m != nil {
		month := monthIndex[m[1]]
		day, _ := strconv.Atoi(m[2])
		if d, ok := buildDate(ref.Year(), month, day); ok {
			if d.Before(ref) {
				if next, ok := buildDate(ref.Year()+1, month, day); ok {
					d = next
				}
			}
			return d.Format(domain.DateLayout), true
		}
	}

	if m := slashRe.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year := ref.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		} else if d, ok := buildDate(year, time.Month(month), day); ok && d.Before(ref) {
			year++
		}
		if d, ok := buildDate(year, time.Month(month), day); ok {
			return d.Format(domain.DateLayout), true
		}
	}

	// Relative phrases the explicit patterns above miss.
	if nextWeekRe.MatchString(lower) {
		return ref.AddDate(0, 0, 7).Format(domain.DateLayout), true
	}
	if m := inDaysRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return ref.AddDate(0, 0, n).Format(domain.DateLayout), true
	}
	if m := inWeeksRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return ref.AddDate(0, 0, n*7).Format(domain.DateLayout), true
	}

	return ref.Format(domain.DateLayout), false
}

// buildDate constructs a date and reports whether the month/day pair was
// actually valid (time.Date silently normalizes out-of-range days).
func buildDate(year int, month time.Month, day int) (time.Time, bool) {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
