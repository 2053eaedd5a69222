package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// TimeLayout is the wire format for times of day (24-hour, minute precision).
const TimeLayout = "15:04"

// Task is a single agenda entry. Date and times are stored in their wire
// formats (YYYY-MM-DD and HH:MM) since every consumer renders or compares
// them as strings; minute arithmetic goes through MinuteOfDay.
type Task struct {
	ID           string
	Title        string
	Date         string // YYYY-MM-DD
	StartTime    string // HH:MM
	EndTime      string // HH:MM, may wrap past midnight
	DurationMin  int
	Type         EventType
	Completed    bool
	RecurrenceID string // links sibling instances of a recurring series
	CreatedAt    time.Time
}

// MinuteOfDay converts an HH:MM string to minutes since midnight.
func MinuteOfDay(hhmm string) (int, error) {
	t, err := time.Parse(TimeLayout, hhmm)
	if err != nil {
		return 0, fmt.Errorf("parsing time %q: %w", hhmm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinuteOfDay converts minutes since midnight to HH:MM, wrapping at 24h.
func FormatMinuteOfDay(m int) string {
	m = ((m % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// CalculateEndTime returns start + duration, wrapped at 24h modulo.
func CalculateEndTime(start string, durationMin int) (string, error) {
	m, err := MinuteOfDay(start)
	if err != nil {
		return "", err
	}
	return FormatMinuteOfDay(m + durationMin), nil
}

// DurationBetween computes the minute difference between start and end,
// treating end <= start as crossing midnight.
func DurationBetween(start, end string) (int, error) {
	s, err := MinuteOfDay(start)
	if err != nil {
		return 0, err
	}
	e, err := MinuteOfDay(end)
	if err != nil {
		return 0, err
	}
	diff := e - s
	if diff <= 0 {
		diff += 1440
	}
	return diff, nil
}

// Overlaps reports whether two tasks conflict: same date and intersecting
// [start, end) intervals. A task never overlaps itself.
func (t *Task) Overlaps(other *Task) bool {
	if t.ID != "" && t.ID == other.ID {
		return false
	}
	if t.Date != other.Date {
		return false
	}
	aStart, err := MinuteOfDay(t.StartTime)
	if err != nil {
		return false
	}
	aEnd, err := MinuteOfDay(t.EndTime)
	if err != nil {
		return false
	}
	bStart, err := MinuteOfDay(other.StartTime)
	if err != nil {
		return false
	}
	bEnd, err := MinuteOfDay(other.EndTime)
	if err != nil {
		return false
	}
	// Midnight-wrapping entries are treated as running to end of day for
	// conflict purposes.
	if aEnd <= aStart {
		aEnd = 1440
	}
	if bEnd <= bStart {
		bEnd = 1440
	}
	return aStart < bEnd && aEnd > bStart
}

// ParseDate parses a wire-format date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// Validate checks the task's field invariants, including the derived
// end_time == start_time + duration relation.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task title must not be empty")
	}
	if _, err := ParseDate(t.Date); err != nil {
		return err
	}
	if t.DurationMin <= 0 {
		return fmt.Errorf("duration must be positive, got %d", t.DurationMin)
	}
	derived, err := CalculateEndTime(t.StartTime, t.DurationMin)
	if err != nil {
		return err
	}
	if t.EndTime != derived {
		return fmt.Errorf("end time %s does not match start %s + %d min", t.EndTime, t.StartTime, t.DurationMin)
	}
	return nil
}
