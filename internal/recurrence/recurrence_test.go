package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tuesday.
var ref = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func TestDetect_RequiresKeywordAndDayRule(t *testing.T) {
	p, ok := Detect("gym every tuesday at 7am for 4 weeks")
	require.True(t, ok)
	assert.Equal(t, PatternSpecificDays, p.Type)
	assert.Equal(t, []int{1}, p.Days)
	assert.Equal(t, TimeframeWeeks, p.Timeframe)
	assert.Equal(t, 4, p.Weeks)

	_, ok = Detect("gym tomorrow at 7am")
	assert.False(t, ok)

	// Keyword with no day rule is not a pattern.
	_, ok = Detect("meet every ounce of the deadline")
	assert.False(t, ok)
}

func TestDetect_DailyAndWeekdays(t *testing.T) {
	p, ok := Detect("standup daily until july 1")
	require.True(t, ok)
	assert.Equal(t, PatternDaily, p.Type)
	assert.Len(t, p.Days, 7)
	assert.Equal(t, TimeframeUntil, p.Timeframe)

	p, ok = Detect("lunch every weekday this month")
	require.True(t, ok)
	assert.Equal(t, PatternWeekdays, p.Type)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, p.Days)
	assert.Equal(t, TimeframeMonth, p.Timeframe)
}

func TestDetect_MultipleDaysSorted(t *testing.T) {
	p, ok := Detect("class every friday and every monday for 2 weeks")
	require.True(t, ok)
	assert.Equal(t, []int{0, 4}, p.Days)
}

func TestDetect_DayListAfterOneKeyword(t *testing.T) {
	p, ok := Detect("class every tuesday and thursday at 6pm for 2 weeks")
	require.True(t, ok)
	assert.Equal(t, []int{1, 3}, p.Days)
	assert.Equal(t, TimeframeWeeks, p.Timeframe)

	p, ok = Detect("standup every monday, wednesday and friday until july 1")
	require.True(t, ok)
	assert.Equal(t, []int{0, 2, 4}, p.Days)
	assert.Equal(t, TimeframeUntil, p.Timeframe)

	// The list ends at the first word that names no day.
	p, ok = Detect("review every tuesday until friday")
	require.True(t, ok)
	assert.Equal(t, []int{1}, p.Days)
}

func TestExpand_WeeklyCount(t *testing.T) {
	p := &Pattern{Type: PatternSpecificDays, Days: []int{3}, Timeframe: TimeframeWeeks, Weeks: 4} // Thursdays
	exp, err := Expand(p, "Class", "18:00", 60, "19:00", ref, MaxOccurrences)
	require.NoError(t, err)
	require.Len(t, exp.Instances, 4)
	assert.Equal(t, "2025-06-12", exp.Instances[0].Date)
	assert.Equal(t, "2025-07-03", exp.Instances[3].Date)

	// All instances share the series id and the template fields.
	id := exp.Instances[0].RecurrenceID
	require.NotEmpty(t, id)
	for _, inst := range exp.Instances {
		assert.Equal(t, id, inst.RecurrenceID)
		assert.Equal(t, "Class", inst.Title)
		assert.Equal(t, "18:00", inst.StartTime)
		assert.Equal(t, "19:00", inst.EndTime)
	}
}

func TestExpand_CapsOccurrences(t *testing.T) {
	// Daily for six months would be ~180 instances; the cap holds it at 30.
	p := &Pattern{Type: PatternDaily, Days: []int{0, 1, 2, 3, 4, 5, 6}, Timeframe: TimeframeWeeks, Weeks: 26}
	exp, err := Expand(p, "Standup", "09:00", 15, "09:15", ref, MaxOccurrences)
	require.NoError(t, err)
	assert.Len(t, exp.Instances, MaxOccurrences)
}

func TestExpand_NoTimeframe(t *testing.T) {
	p := &Pattern{Type: PatternDaily, Days: []int{0, 1, 2, 3, 4, 5, 6}}
	_, err := Expand(p, "Standup", "09:00", 15, "09:15", ref, MaxOccurrences)
	assert.ErrorIs(t, err, ErrNoTimeframe)
}

func TestExpand_UntilDate(t *testing.T) {
	p := &Pattern{Type: PatternSpecificDays, Days: []int{1}, Timeframe: TimeframeUntil, UntilText: "july 1"}
	exp, err := Expand(p, "Gym", "07:00", 60, "08:00", ref, MaxOccurrences)
	require.NoError(t, err)
	// Tuesdays from Jun 10 through Jul 1 inclusive.
	require.Len(t, exp.Instances, 4)
	assert.Equal(t, "2025-06-10", exp.Instances[0].Date)
	assert.Equal(t, "2025-07-01", exp.Instances[3].Date)
}

func TestExpand_UnparseableUntilFallsBackFourWeeks(t *testing.T) {
	p := &Pattern{Type: PatternSpecificDays, Days: []int{1}, Timeframe: TimeframeUntil, UntilText: "whenever"}
	exp, err := Expand(p, "Gym", "07:00", 60, "08:00", ref, MaxOccurrences)
	require.NoError(t, err)
	assert.Len(t, exp.Instances, 5)
}

func TestApplyTimeframe(t *testing.T) {
	p := &Pattern{Type: PatternDaily, Days: []int{0, 1, 2, 3, 4, 5, 6}}

	require.True(t, p.ApplyTimeframe("4 weeks"))
	assert.Equal(t, TimeframeWeeks, p.Timeframe)
	assert.Equal(t, 4, p.Weeks)

	p2 := &Pattern{}
	require.True(t, p2.ApplyTimeframe("until nov 20"))
	assert.Equal(t, TimeframeUntil, p2.Timeframe)
	assert.Equal(t, "nov 20", p2.UntilText)

	p3 := &Pattern{}
	assert.False(t, p3.ApplyTimeframe("dunno"))
}

func TestFormatDatePreview(t *testing.T) {
	p := &Pattern{Type: PatternSpecificDays, Days: []int{3}, Timeframe: TimeframeWeeks, Weeks: 5}
	exp, err := Expand(p, "Class", "18:00", 60, "19:00", ref, MaxOccurrences)
	require.NoError(t, err)
	require.Len(t, exp.Instances, 5)
	assert.Equal(t, "Jun 12, Jun 19, Jun 26 (and 2 more)", FormatDatePreview(exp.Instances, 3))
}
