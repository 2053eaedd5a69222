package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Tuesday.
var ref = time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

func TestInferDate_RelativeWords(t *testing.T) {
	assert.Equal(t, "2025-06-10", InferDate("finish the report today", ref))
	assert.Equal(t, "2025-06-10", InferDate("movie tonight", ref))
	assert.Equal(t, "2025-06-11", InferDate("gym tomorrow at 7am", ref))
	assert.Equal(t, "2025-06-11", InferDate("call mom tmr", ref))
}

func TestInferDate_WeekdayAlwaysAdvances(t *testing.T) {
	// Friday is later this week.
	assert.Equal(t, "2025-06-13", InferDate("lunch on friday", ref))
	// Naming the reference day itself means next week, never today.
	assert.Equal(t, "2025-06-17", InferDate("standup on tuesday", ref))
	// Monday already passed, so next week's Monday.
	assert.Equal(t, "2025-06-16", InferDate("review on mon", ref))
}

func TestInferDate_MonthDay(t *testing.T) {
	assert.Equal(t, "2025-06-20", InferDate("dentist june 20th", ref))
	assert.Equal(t, "2025-12-25", InferDate("party dec 25", ref))
	// Already past this year rolls to next year.
	assert.Equal(t, "2026-06-05", InferDate("trip jun 5", ref))
	// Invalid day falls through to the reference date.
	assert.Equal(t, "2025-06-10", InferDate("thing feb 30", ref))
}

func TestInferDate_SlashDates(t *testing.T) {
	assert.Equal(t, "2025-06-20", InferDate("exam 6/20", ref))
	assert.Equal(t, "2026-06-05", InferDate("exam 6/5", ref))
	assert.Equal(t, "2026-12-25", InferDate("flight 12/25/26", ref))
	assert.Equal(t, "2024-01-15", InferDate("it was 1/15/2024", ref))
}

func TestInferDate_RelativePhrases(t *testing.T) {
	assert.Equal(t, "2025-06-17", InferDate("sync next week", ref))
	assert.Equal(t, "2025-06-13", InferDate("demo in 3 days", ref))
	assert.Equal(t, "2025-06-24", InferDate("retro in 2 weeks", ref))
}

func TestInferDate_FallsBackToReference(t *testing.T) {
	assert.Equal(t, "2025-06-10", InferDate("add a gym session", ref))
	assert.Equal(t, "2025-06-10", InferDate("", ref))
}

func TestInferDateOk_ReportsMisses(t *testing.T) {
	date, ok := InferDateOk("gym at 7am", ref)
	assert.False(t, ok)
	assert.Equal(t, "2025-06-10", date)

	date, ok = InferDateOk("gym tomorrow", ref)
	assert.True(t, ok)
	assert.Equal(t, "2025-06-11", date)
}
