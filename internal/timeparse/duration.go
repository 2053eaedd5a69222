package timeparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	fillerRe      = regexp.MustCompile(`\b(?:about|around|roughly|approximately)\b`)
	halfHourRe    = regexp.MustCompile(`\bhalf\s+(?:an\s+)?hour\b`)
	quarterHourRe = regexp.MustCompile(`\bquarter\s+(?:of\s+an\s+)?hour\b`)
	hourAndHalfRe = regexp.MustCompile(`\b(?:an?\s+)?hour\s+and\s+a\s+half\b`)
	nAndHalfRe    = regexp.MustCompile(`\b(\d+)\s+and\s+a\s+half\s+(?:hours?|hrs?)\b`)
	hoursMinsRe   = regexp.MustCompile(`\b(\d+)\s*(?:hours?|hrs?|h)\s*(?:and\s+)?(\d+)\s*(?:minutes?|mins?|m)\b`)
	hoursRe       = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(?:hours?|hrs?|h)\b`)
	minutesRe     = regexp.MustCompile(`\b(\d+)\s*(?:minutes?|mins?|m)\b`)
)

// ParseDurationMinutes extracts a duration from text. It recognizes, in
// priority order: spelled fractions ("half an hour", "quarter hour",
// "hour and a half", "2 and a half hours"), combined hours+minutes,
// decimal hours, and bare minutes. Filler words like "about" are
// stripped before matching. Returns false when nothing matches; the
// caller owns the default, the parser never guesses.
func ParseDurationMinutes(text string) (int, bool) {
	lower := fillerRe.ReplaceAllString(strings.ToLower(text), " ")

	if halfHourRe.MatchString(lower) {
		return 30, true
	}
	if quarterHourRe.MatchString(lower) {
		return 15, true
	}
	if hourAndHalfRe.MatchString(lower) {
		return 90, true
	}
	if m := nAndHalfRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n*60 + 30, true
	}
	if m := hoursMinsRe.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		return h*60 + min, true
	}
	if m := hoursRe.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		return int(math.Round(h * 60)), true
	}
	if m := minutesRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, true
	}
	return 0, false
}
