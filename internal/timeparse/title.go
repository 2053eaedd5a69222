package timeparse

import (
	"regexp"
	"strings"
)

// DefaultTitle is used when no title survives token stripping and no
// domain keyword suggests a canned one.
const DefaultTitle = "New Task"

// Stripping patterns, applied in order. Context-bearing phrases ("at 7pm",
// "for 2 hours", "on Oct 29") go before the bare connector sweep so the
// connector is removed together with its argument.
var titleStripRes = []*regexp.Regexp{
	// Command and edit verbs.
	regexp.MustCompile(`\b(?:add|schedule|create|plan|book|make|set\s+up|set|remind\s+me\s+to|reminder|new)\b`),
	regexp.MustCompile(`\b(?:move|reschedule|change|delay|extend|rename|delete|remove|cancel|postpone|shift|update|modify|edit)\b`),
	// Time ranges and single times.
	regexp.MustCompile(`\b(?:from\s+)?\d{1,2}(?::\d{2})?\s*(?:am|pm)?\s*(?:-|to)\s*\d{1,2}(?::\d{2})?\s*(?:am|pm)\b`),
	regexp.MustCompile(`\bat\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)?\b`),
	regexp.MustCompile(`\b\d{1,2}(?::\d{2})?\s*(?:am|pm)\b`),
	// Durations, spelled and numeric.
	regexp.MustCompile(`\bfor\s+(?:about\s+|around\s+|roughly\s+)?\d+(?:\.\d+)?\s*(?:hours?|hrs?|h|minutes?|mins?|m)\b`),
	regexp.MustCompile(`\bfor\s+(?:half\s+an\s+hour|a\s+quarter\s+hour|an?\s+hour(?:\s+and\s+a\s+half)?)\b`),
	regexp.MustCompile(`\b\d+\s+and\s+a\s+half\s+(?:hours?|hrs?)\b`),
	regexp.MustCompile(`\b\d+(?:\.\d+)?\s*(?:hours?|hrs?|minutes?|mins?)\b`),
	// Dates.
	regexp.MustCompile(`\b(?:on\s+)?(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{1,2}(?:st|nd|rd|th)?\b`),
	regexp.MustCompile(`\b(?:on\s+)?\d{1,2}/\d{1,2}(?:/\d{2,4})?\b`),
	regexp.MustCompile(`\b(?:next|this)\s+(?:week|month|year)\b`),
	regexp.MustCompile(`\b(?:tomorrow|tmr|today|tonight|daily)\b`),
	regexp.MustCompile(`\b(?:on|every|each|next|this)?\s*(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tues|tue|wed|thurs|thu|fri|sat|sun)s?\b`),
	regexp.MustCompile(`\b(?:every\s+)?weekdays?\b`),
	regexp.MustCompile(`\bfor\s+\d+\s+weeks?\b`),
	regexp.MustCompile(`\buntil\b.*$`),
	// Leftover bare connectors and articles.
	regexp.MustCompile(`\b(?:on|at|for|from|to|by|in|the|this|next|every|each|a|an|my|please)\b`),
}

var spaceRe = regexp.MustCompile(`\s+`)

var cannedTitles = []struct {
	keyword string
	title   string
}{
	{"meeting", "Meeting"},
	{"workout", "Workout"},
	{"gym", "Workout"},
	{"lunch", "Lunch Break"},
	{"study", "Study Session"},
}

// ExtractTitle recovers a human-readable task title from a scheduling
// command by stripping recognized command, time, date, and duration
// tokens. The surviving span is located back in the original string so
// the user's own casing is preserved ("HW session 2" stays "HW session
// 2"). When nothing survives, a canned title is guessed from domain
// keywords, falling back to DefaultTitle.
func ExtractTitle(raw string) string {
	cleaned := strings.ToLower(raw)
	for _, re := range titleStripRes {
		cleaned = re.ReplaceAllString(cleaned, " ")
	}
	cleaned = strings.Trim(spaceRe.ReplaceAllString(cleaned, " "), " ,.!?:;")

	if cleaned == "" {
		return cannedTitle(raw)
	}

	words := strings.Fields(cleaned)
	if original, ok := findInOriginal(raw, words); ok {
		// Intentional casing ("HW session 2") is preserved; an
		// all-lowercase span gets cosmetic title-casing instead.
		if original != strings.ToLower(original) {
			return original
		}
		parts := strings.Fields(original)
		for i, w := range parts {
			parts[i] = capitalize(w)
		}
		return strings.Join(parts, " ")
	}

	// Relocation failed (stripping split the span); title-case the pieces.
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// findInOriginal searches raw case-insensitively for the cleaned word
// sequence and returns the original-cased span.
func findInOriginal(raw string, words []string) (string, bool) {
	escaped := make([]string, len(words))
	for i, w := range words {
		escaped[i] = regexp.QuoteMeta(w)
	}
	re, err := regexp.Compile(`(?i)\b` + strings.Join(escaped, `\s+`) + `\b`)
	if err != nil {
		return "", false
	}
	if m := re.FindString(raw); m != "" {
		return strings.TrimSpace(m), true
	}
	return "", false
}

func cannedTitle(raw string) string {
	lower := strings.ToLower(raw)
	for _, c := range cannedTitles {
		if strings.Contains(lower, c.keyword) {
			return c.title
		}
	}
	return DefaultTitle
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
