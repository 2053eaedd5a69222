package timeparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/timebuddy-app/timebuddy/internal/domain"
)

var (
	clockRe = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	rangeRe = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s*(?:-|to)\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	isoPrefixRe = regexp.MustCompile(`^\s*\d{4}-\d{2}-\d{2}`)
)

// toClock converts an hour/minute/meridiem triple to a wire-format HH:MM
// string. Without a meridiem the hour is read as 24-hour. Returns false
// for out-of-range values.
func toClock(hourStr, minStr, meridiem string) (string, bool) {
	h, _ := strconv.Atoi(hourStr)
	m := 0
	if minStr != "" {
		m, _ = strconv.Atoi(minStr)
	}
	if m > 59 {
		return "", false
	}
	switch meridiem {
	case "pm":
		if h < 1 || h > 12 {
			return "", false
		}
		if h != 12 {
			h += 12
		}
	case "am":
		if h < 1 || h > 12 {
			return "", false
		}
		if h == 12 {
			h = 0
		}
	default:
		if h > 23 {
			return "", false
		}
	}
	return domain.FormatMinuteOfDay(h*60 + m), true
}

// ParseClock extracts a single time of day from text, returned as HH:MM.
// Accepts "3pm", "9:30am", "14:30", and bare 24-hour hours. Forms with a
// meridiem win over plain HH:MM, which wins over a bare hour, so an
// incidental number earlier in the sentence does not shadow "at 7am".
func ParseClock(text string) (string, bool) {
	lower := strings.ToLower(text)
	matches := clockRe.FindAllStringSubmatch(lower, -1)

	pass := func(accept func(m []string) bool) (string, bool) {
		for _, m := range matches {
			if !accept(m) {
				continue
			}
			if clock, ok := toClock(m[1], m[2], m[3]); ok {
				return clock, true
			}
		}
		return "", false
	}

	if c, ok := pass(func(m []string) bool { return m[3] != "" }); ok {
		return c, true
	}
	if c, ok := pass(func(m []string) bool { return m[2] != "" }); ok {
		return c, true
	}
	return pass(func(m []string) bool { return true })
}

// ParseTimeRange extracts a start/end pair from text ("7-9pm",
// "10:00 to 11:30"). When only one side carries a meridiem the other
// side inherits it. Candidates are scanned right to left since trailing
// clauses are more likely to be the intended range in compound
// sentences; a candidate with out-of-range values is rejected and the
// next one tried. A recognized leading YYYY-MM-DD token is stripped first
// so its hyphens are not mistaken for a range separator.
func ParseTimeRange(text string) (start, end string, ok bool) {
	lower := strings.ToLower(text)
	lower = isoPrefixRe.ReplaceAllString(lower, "")

	matches := rangeRe.FindAllStringSubmatch(lower, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		startMer, endMer := m[3], m[6]
		if startMer == "" {
			startMer = endMer
		}
		if endMer == "" {
			endMer = startMer
		}
		s, sok := toClock(m[1], m[2], startMer)
		e, eok := toClock(m[4], m[5], endMer)
		if sok && eok {
			return s, e, true
		}
	}
	return "", "", false
}
