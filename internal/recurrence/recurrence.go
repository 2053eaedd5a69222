// Package recurrence detects recurring-schedule phrasing ("every
// Thursday", "daily", "weekdays") and expands a task template into a
// bounded list of dated instances.
package recurrence

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timebuddy-app/timebuddy/internal/domain"
	"github.com/timebuddy-app/timebuddy/internal/timeparse"
)

// MaxOccurrences is the hard cap on instances produced by a single
// expansion, regardless of the requested timeframe.
const MaxOccurrences = 30

// ErrNoTimeframe signals that a pattern was detected but the utterance
// carried no end condition. Expansion refuses to guess; the caller asks
// a clarifying question instead.
var ErrNoTimeframe = errors.New("recurring pattern has no timeframe")

// PatternType classifies the day-selection rule of a pattern.
type PatternType string

const (
	PatternDaily        PatternType = "daily"
	PatternWeekdays     PatternType = "weekdays"
	PatternSpecificDays PatternType = "specific_days"
)

// TimeframeKind classifies the end condition of a pattern.
type TimeframeKind string

const (
	TimeframeNone  TimeframeKind = ""
	TimeframeWeeks TimeframeKind = "weeks"
	TimeframeMonth TimeframeKind = "month"
	TimeframeUntil TimeframeKind = "until"
)

// Pattern is a detected recurring schedule. Days holds weekday indices
// with 0=Monday through 6=Sunday.
type Pattern struct {
	Type      PatternType
	Days      []int
	Timeframe TimeframeKind
	Weeks     int    // for TimeframeWeeks
	UntilText string // raw text after "until", for TimeframeUntil
}

var recurKeywordRe = regexp.MustCompile(`\b(?:every|daily|recurring|repeating|each)\b`)
var dailyRe = regexp.MustCompile(`\bdaily\b|\bevery\s+day\b`)
var weekdaysRe = regexp.MustCompile(`\bweekdays?\b`)
var forWeeksRe = regexp.MustCompile(`\bfor\s+(\d+)\s+weeks?\b`)
var thisMonthRe = regexp.MustCompile(`\bthis\s+month\b|\bfor\s+month\b`)
var untilRe = regexp.MustCompile(`\buntil\s+([a-z0-9/\s]+)`)

var everyEachRe = regexp.MustCompile(`\b(?:every|each)\b`)

// dayIndex maps day names to Monday-first weekday indices.
var dayIndex = map[string]int{
	"monday": 0, "mon": 0,
	"tuesday": 1, "tues": 1, "tue": 1,
	"wednesday": 2, "wed": 2,
	"thursday": 3, "thurs": 3, "thu": 3,
	"friday": 4, "fri": 4,
	"saturday": 5, "sat": 5,
	"sunday": 6, "sun": 6,
}

// Detect looks for a recurring pattern in text. It requires both a
// recurrence keyword and a recognizable day rule; "meet every ounce of
// the deadline" detects nothing.
func Detect(text string) (*Pattern, bool) {
	lower := strings.ToLower(text)
	if !recurKeywordRe.MatchString(lower) {
		return nil, false
	}

	p := &Pattern{}
	switch {
	case dailyRe.MatchString(lower):
		p.Type = PatternDaily
		p.Days = []int{0, 1, 2, 3, 4, 5, 6}
	case weekdaysRe.MatchString(lower):
		p.Type = PatternWeekdays
		p.Days = []int{0, 1, 2, 3, 4}
	default:
		p.Days = dayList(lower)
		if len(p.Days) == 0 {
			return nil, false
		}
		p.Type = PatternSpecificDays
	}

	if m := forWeeksRe.FindStringSubmatch(lower); m != nil {
		p.Timeframe = TimeframeWeeks
		p.Weeks, _ = strconv.Atoi(m[1])
	} else if thisMonthRe.MatchString(lower) {
		p.Timeframe = TimeframeMonth
	} else if m := untilRe.FindStringSubmatch(lower); m != nil {
		p.Timeframe = TimeframeUntil
		p.UntilText = strings.TrimSpace(m[1])
	}

	return p, true
}

// dayList collects the day names following each "every"/"each",
// accepting lists joined by commas and "and" ("every tuesday and
// thursday"). Collection stops at the first word that is neither a day
// name nor a list connector, so "every tuesday until friday" names only
// Tuesday.
func dayList(lower string) []int {
	seen := map[int]bool{}
	var days []int
	for _, loc := range everyEachRe.FindAllStringIndex(lower, -1) {
		words := strings.FieldsFunc(lower[loc[1]:], func(r rune) bool {
			return r == ' ' || r == ','
		})
		for _, w := range words {
			if w == "and" || w == "or" {
				continue
			}
			idx, ok := lookupDay(w)
			if !ok {
				break
			}
			if !seen[idx] {
				seen[idx] = true
				days = append(days, idx)
			}
		}
	}
	sort.Ints(days)
	return days
}

// lookupDay resolves one word to a weekday index, tolerating a plural
// suffix ("tuesdays") and trailing punctuation.
func lookupDay(w string) (int, bool) {
	w = strings.Trim(w, ".!?")
	if idx, ok := dayIndex[w]; ok {
		return idx, true
	}
	if idx, ok := dayIndex[strings.TrimSuffix(w, "s")]; ok {
		return idx, true
	}
	return 0, false
}

var bareWeeksRe = regexp.MustCompile(`\b(?:for\s+)?(\d+)\s+weeks?\b`)

// ApplyTimeframe fills the pattern's end condition from a standalone
// reply to the timeframe question ("4 weeks", "until nov 20", "this
// month"). Returns false when the reply names no timeframe.
func (p *Pattern) ApplyTimeframe(text string) bool {
	lower := strings.ToLower(text)
	if m := bareWeeksRe.FindStringSubmatch(lower); m != nil {
		p.Timeframe = TimeframeWeeks
		p.Weeks, _ = strconv.Atoi(m[1])
		return true
	}
	if thisMonthRe.MatchString(lower) {
		p.Timeframe = TimeframeMonth
		return true
	}
	if m := untilRe.FindStringSubmatch(lower); m != nil {
		p.Timeframe = TimeframeUntil
		p.UntilText = strings.TrimSpace(m[1])
		return true
	}
	return false
}

// Expansion is the result of expanding a pattern: the dated instances,
// the series id they share, and a human-readable date range.
type Expansion struct {
	Instances    []*domain.Task
	RecurrenceID string
	RangeDesc    string
}

// Expand walks day by day from reference to the pattern's end date,
// emitting one task per matching weekday. The walk stops at
// maxOccurrences even if the timeframe would produce more. Patterns
// without a timeframe return ErrNoTimeframe.
func Expand(p *Pattern, title, startTime string, durationMin int, endTime string, reference time.Time, maxOccurrences int) (*Expansion, error) {
	if maxOccurrences <= 0 || maxOccurrences > MaxOccurrences {
		maxOccurrences = MaxOccurrences
	}

	ref := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	endDate, err := resolveEndDate(p, ref)
	if err != nil {
		return nil, err
	}

	inDays := map[int]bool{}
	for _, d := range p.Days {
		inDays[d] = true
	}

	recurrenceID := uuid.New().String()
	var dates []time.Time
	for d := ref; !d.After(endDate) && len(dates) < maxOccurrences; d = d.AddDate(0, 0, 1) {
		if inDays[mondayIndexed(d.Weekday())] {
			dates = append(dates, d)
		}
	}

	exp := &Expansion{RecurrenceID: recurrenceID}
	for _, d := range dates {
		exp.Instances = append(exp.Instances, &domain.Task{
			Title:        title,
			Date:         d.Format(domain.DateLayout),
			StartTime:    startTime,
			EndTime:      endTime,
			DurationMin:  durationMin,
			Type:         domain.InferEventType(title),
			RecurrenceID: recurrenceID,
		})
	}

	if len(dates) == 0 {
		exp.RangeDesc = "no matching dates"
	} else {
		exp.RangeDesc = fmt.Sprintf("%s to %s",
			dates[0].Format("Jan 02"), dates[len(dates)-1].Format("Jan 02"))
	}
	return exp, nil
}

func resolveEndDate(p *Pattern, ref time.Time) (time.Time, error) {
	switch p.Timeframe {
	case TimeframeWeeks:
		return ref.AddDate(0, 0, p.Weeks*7), nil
	case TimeframeMonth:
		firstOfNext := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		return firstOfNext.AddDate(0, 0, -1), nil
	case TimeframeUntil:
		inferred := timeparse.InferDate(p.UntilText, ref)
		end, err := domain.ParseDate(inferred)
		// InferDate returning the reference itself means nothing in the
		// until-clause was recognizable; fall back to four weeks out.
		if err != nil || !end.After(ref) {
			return ref.AddDate(0, 0, 28), nil
		}
		return end, nil
	default:
		return time.Time{}, ErrNoTimeframe
	}
}

// FormatDatePreview renders the first few expansion dates for a
// confirmation message, e.g. "Oct 23, Oct 30, Nov 06 (and 2 more)".
func FormatDatePreview(tasks []*domain.Task, maxShow int) string {
	if len(tasks) == 0 {
		return "no dates"
	}
	shown := len(tasks)
	if shown > maxShow {
		shown = maxShow
	}
	parts := make([]string, 0, shown)
	for _, t := range tasks[:shown] {
		if d, err := domain.ParseDate(t.Date); err == nil {
			parts = append(parts, d.Format("Jan 02"))
		}
	}
	out := strings.Join(parts, ", ")
	if rest := len(tasks) - shown; rest > 0 {
		out += fmt.Sprintf(" (and %d more)", rest)
	}
	return out
}

// mondayIndexed converts Go's Sunday-first weekday to this package's
// Monday-first index.
func mondayIndexed(w time.Weekday) int {
	return (int(w) + 6) % 7
}
