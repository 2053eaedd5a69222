package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timebuddy-app/timebuddy/internal/repository"
	"github.com/timebuddy-app/timebuddy/internal/testutil"
)

// Tuesday noon.
var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T) (*Session, *repository.MemoryTaskRepo) {
	t.Helper()
	repo := repository.NewMemoryTaskRepo()
	s := NewSession(Config{
		Repo:     repo,
		Timezone: time.UTC,
		Now:      func() time.Time { return testNow },
	})
	return s, repo
}

func submit(t *testing.T, s *Session, text string) string {
	t.Helper()
	reply, err := s.Submit(context.Background(), text)
	require.NoError(t, err)
	return reply
}

func TestSession_CreateEndToEnd(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	reply := submit(t, s, "add gym tomorrow at 7am for 1 hour")
	assert.Contains(t, reply, "Gym")
	assert.Contains(t, reply, "Save this?")
	assert.True(t, s.AwaitingConfirmation())

	reply = submit(t, s, "yes")
	assert.Contains(t, reply, "Saved!")
	assert.False(t, s.AwaitingConfirmation())

	tasks, err := s.GetTasks(ctx, TaskFilter{Date: "2025-06-11"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Gym", tasks[0].Title)
	assert.Equal(t, "07:00", tasks[0].StartTime)
	assert.Equal(t, "08:00", tasks[0].EndTime)
	assert.Equal(t, 60, tasks[0].DurationMin)
}

func TestSession_CreateWithRange(t *testing.T) {
	s, _ := newTestSession(t)

	reply := submit(t, s, "add dinner with sam friday 7-9pm")
	assert.Contains(t, reply, "Save this?")
	submit(t, s, "yes")

	tasks, err := s.GetTasks(context.Background(), TaskFilter{Date: "2025-06-13"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "19:00", tasks[0].StartTime)
	assert.Equal(t, "21:00", tasks[0].EndTime)
	assert.Equal(t, 120, tasks[0].DurationMin)
}

func TestSession_SlotFillingOneQuestionAtATime(t *testing.T) {
	s, _ := newTestSession(t)

	reply := submit(t, s, "add team meeting")
	assert.Contains(t, reply, "When")

	reply = submit(t, s, "tomorrow at 2pm")
	assert.Contains(t, reply, "How long")

	reply = submit(t, s, "45 minutes")
	assert.Contains(t, reply, "Team Meeting")
	assert.Contains(t, reply, "Save this?")

	submit(t, s, "yes")
	tasks, err := s.GetTasks(context.Background(), TaskFilter{Date: "2025-06-11"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "14:00", tasks[0].StartTime)
	assert.Equal(t, "14:45", tasks[0].EndTime)
}

func TestSession_MissingTitleAsked(t *testing.T) {
	s, _ := newTestSession(t)

	reply := submit(t, s, "add at 3pm")
	assert.Contains(t, reply, "What should I call")

	reply = submit(t, s, "dentist")
	assert.Contains(t, reply, "How long")

	reply = submit(t, s, "30 min")
	assert.Contains(t, reply, "Dentist")
	assert.Contains(t, reply, "Save this?")
}

func TestSession_DefaultDurationIsOneHour(t *testing.T) {
	s, _ := newTestSession(t)

	submit(t, s, "add review tomorrow")
	// Time slot reply carries no duration; the duration question's
	// answer doesn't parse either.
	submit(t, s, "3pm")
	reply := submit(t, s, "no idea")
	assert.Contains(t, reply, "Save this?")
	submit(t, s, "yes")

	tasks, err := s.GetTasks(context.Background(), TaskFilter{Date: "2025-06-11"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 60, tasks[0].DurationMin)
	assert.Equal(t, "16:00", tasks[0].EndTime)
}

func TestSession_UnreadableTimeReasked(t *testing.T) {
	s, _ := newTestSession(t)

	submit(t, s, "add team meeting")
	reply := submit(t, s, "whenever works")
	assert.Contains(t, reply, "couldn't read a time")
}

func TestSession_AbortMidFlow(t *testing.T) {
	s, _ := newTestSession(t)

	submit(t, s, "add team meeting")
	reply := submit(t, s, "cancel")
	assert.Contains(t, reply, "never mind")

	tasks, err := s.GetTasks(context.Background(), TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSession_NoDiscardsAndForgets(t *testing.T) {
	s, _ := newTestSession(t)

	submit(t, s, "add gym tomorrow at 7am for 1 hour")
	reply := submit(t, s, "no")
	assert.Contains(t, reply, "discarded")
	assert.False(t, s.AwaitingConfirmation())

	tasks, err := s.GetTasks(context.Background(), TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// A second "no" is just another utterance against an idle session.
	reply = submit(t, s, "no")
	assert.NotEmpty(t, reply)
	assert.False(t, s.AwaitingConfirmation())
}

func TestSession_CorrectionKeepsAwaiting(t *testing.T) {
	s, _ := newTestSession(t)

	submit(t, s, "add gym tomorrow at 7am for 1 hour")
	reply := submit(t, s, "make it 4pm instead")
	assert.Contains(t, reply, "16:00")
	assert.Contains(t, reply, "Save this?")
	assert.True(t, s.AwaitingConfirmation())

	submit(t, s, "yes")
	tasks, err := s.GetTasks(context.Background(), TaskFilter{Date: "2025-06-11"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "16:00", tasks[0].StartTime)
	assert.Equal(t, "17:00", tasks[0].EndTime)
}

func TestSession_UnrecognizedReplyReprompts(t *testing.T) {
	s, _ := newTestSession(t)

	submit(t, s, "add gym tomorrow at 7am for 1 hour")
	reply := submit(t, s, "hmm what do you think")
	assert.Contains(t, reply, "yes")
	assert.True(t, s.AwaitingConfirmation())
}

func TestSession_ConflictIsAdvisoryOnly(t *testing.T) {
	s, repo := newTestSession(t)
	ctx := context.Background()

	existing := testutil.NewTestTask("Standup",
		testutil.WithDate("2025-06-11"), testutil.WithTimes("07:30", "08:30"))
	require.NoError(t, repo.Create(ctx, existing))

	reply := submit(t, s, "add gym tomorrow at 7am for 1 hour")
	assert.Contains(t, reply, "Heads up")
	assert.Contains(t, reply, "Standup")
	assert.Contains(t, reply, "Save this?")

	submit(t, s, "yes")
	tasks, err := s.GetTasks(ctx, TaskFilter{Date: "2025-06-11"})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestSession_RecurringCreate(t *testing.T) {
	s, _ := newTestSession(t)

	reply := submit(t, s, "add piano practice every tuesday at 6pm for 4 weeks")
	assert.Contains(t, reply, "How long")

	reply = submit(t, s, "1 hour")
	assert.Contains(t, reply, "Save this?")
	assert.Contains(t, reply, "sessions")

	submit(t, s, "yes")
	tasks, err := s.GetTasks(context.Background(), TaskFilter{})
	require.NoError(t, err)
	// Tuesdays Jun 10 through Jul 8.
	require.Len(t, tasks, 5)
	id := tasks[0].RecurrenceID
	require.NotEmpty(t, id)
	for _, task := range tasks {
		assert.Equal(t, id, task.RecurrenceID)
		assert.Equal(t, "18:00", task.StartTime)
	}
}

func TestSession_RecurringCreateWithoutVerb(t *testing.T) {
	// Monday.
	monday := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	repo := repository.NewMemoryTaskRepo()
	s := NewSession(Config{
		Repo:     repo,
		Timezone: time.UTC,
		Now:      func() time.Time { return monday },
	})

	// No create verb; "weeks" must not pull this into a schedule view.
	reply := submit(t, s, "every Thursday for 4 weeks, study at 6pm for 2 hours")
	assert.Contains(t, reply, "Save this?")
	require.True(t, s.AwaitingConfirmation())

	submit(t, s, "yes")

	tasks, err := s.GetTasks(context.Background(), TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 4)
	wantDates := []string{"2025-06-12", "2025-06-19", "2025-06-26", "2025-07-03"}
	for i, task := range tasks {
		assert.Equal(t, wantDates[i], task.Date)
		assert.Equal(t, "18:00", task.StartTime)
		assert.Equal(t, "20:00", task.EndTime)
		assert.Equal(t, 120, task.DurationMin)
	}
}

func TestSession_RecurringCreateVerblessAsksDuration(t *testing.T) {
	s, _ := newTestSession(t)

	reply := submit(t, s, "gym every Tuesday at 7am for 4 weeks")
	assert.Contains(t, reply, "How long")

	reply = submit(t, s, "1 hour")
	assert.Contains(t, reply, "Save this?")

	submit(t, s, "yes")
	tasks, err := s.GetTasks(context.Background(), TaskFilter{})
	require.NoError(t, err)
	// Tuesdays Jun 10 through Jul 8.
	assert.Len(t, tasks, 5)
}

func TestSession_EditVerbKeepsRecurringPhraseOutOfCreate(t *testing.T) {
	s, repo := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("Standup")))

	reply := submit(t, s, "cancel my daily standup")
	assert.Contains(t, reply, "Delete **Standup**")

	reply = submit(t, s, "yes")
	assert.Contains(t, reply, "Deleted")
	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSession_RecurringAsksForTimeframe(t *testing.T) {
	s, _ := newTestSession(t)

	submit(t, s, "add yoga every monday at 8am")
	reply := submit(t, s, "1 hour")
	assert.Contains(t, reply, "repeat")

	reply = submit(t, s, "for 3 weeks")
	assert.Contains(t, reply, "Save this?")

	submit(t, s, "yes")
	tasks, err := s.GetTasks(context.Background(), TaskFilter{})
	require.NoError(t, err)
	// Mondays Jun 16, 23, 30.
	assert.Len(t, tasks, 3)
}

func TestSession_EditDelete(t *testing.T) {
	s, repo := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("Gym",
		testutil.WithTimes("07:00", "08:00"))))

	reply := submit(t, s, "delete the gym")
	assert.Contains(t, reply, "Delete")
	assert.Contains(t, reply, "Gym")

	reply = submit(t, s, "yes")
	assert.Contains(t, reply, "Deleted")

	tasks, err := s.GetTasks(ctx, TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSession_EditMove(t *testing.T) {
	s, repo := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("Team Meeting",
		testutil.WithTimes("14:00", "15:00"))))

	reply := submit(t, s, "move the meeting to 4pm")
	assert.Contains(t, reply, "16:00")
	assert.Contains(t, reply, "Save this?")

	submit(t, s, "yes")
	tasks, err := s.GetTasks(ctx, TaskFilter{Date: "2025-06-10"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "16:00", tasks[0].StartTime)
	assert.Equal(t, "17:00", tasks[0].EndTime)
}

func TestSession_EditComplete(t *testing.T) {
	s, repo := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("Report")))

	submit(t, s, "mark the report done")
	reply := submit(t, s, "yes")
	assert.Contains(t, reply, "done")

	tasks, err := s.GetTasks(ctx, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
}

func TestSession_EditAmbiguousTargetEnumerated(t *testing.T) {
	s, repo := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("Code Review",
		testutil.WithTimes("09:00", "10:00"))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("Design Review",
		testutil.WithTimes("11:00", "12:00"))))

	reply := submit(t, s, "delete the review")
	assert.Contains(t, reply, "Which one?")
	assert.Contains(t, reply, "1.")
	assert.Contains(t, reply, "2.")

	reply = submit(t, s, "2")
	assert.Contains(t, reply, "Design Review")

	submit(t, s, "yes")
	tasks, err := s.GetTasks(ctx, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Code Review", tasks[0].Title)
}

func TestSession_EditUnknownTargetAsksKeyword(t *testing.T) {
	s, repo := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("Gym")))

	reply := submit(t, s, "delete the dentist")
	assert.Contains(t, reply, "Which task")

	reply = submit(t, s, "gym")
	assert.Contains(t, reply, "Delete")
	assert.Contains(t, reply, "Gym")
}

func TestSession_EditNoTasks(t *testing.T) {
	s, _ := newTestSession(t)
	reply := submit(t, s, "delete the gym")
	assert.Contains(t, reply, "don't have any tasks")
}

func TestSession_EditTargetVanishesBeforeCommit(t *testing.T) {
	s, repo := newTestSession(t)
	ctx := context.Background()

	task := testutil.NewTestTask("Gym")
	require.NoError(t, repo.Create(ctx, task))

	submit(t, s, "delete the gym")
	require.NoError(t, repo.Delete(ctx, task.ID))

	reply := submit(t, s, "yes")
	assert.Contains(t, reply, "no longer exists")
	assert.False(t, s.AwaitingConfirmation())
}

func TestSession_BulkDeleteWithTypeFilter(t *testing.T) {
	s, repo := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("Team Meeting",
		testutil.WithTimes("09:00", "10:00"))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("Client Call",
		testutil.WithTimes("11:00", "12:00"))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("Gym",
		testutil.WithTimes("18:00", "19:00"))))

	reply := submit(t, s, "delete all my meetings")
	assert.Contains(t, reply, "2 tasks")
	assert.Contains(t, reply, "Save this?")

	reply = submit(t, s, "yes")
	assert.Contains(t, reply, "Deleted 2 tasks")

	tasks, err := s.GetTasks(ctx, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Gym", tasks[0].Title)
}

func TestSession_CheckToday(t *testing.T) {
	s, repo := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("Gym",
		testutil.WithTimes("07:00", "08:00"))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("Elsewhere",
		testutil.WithDate("2025-06-20"))))

	reply := submit(t, s, "what's on today")
	assert.Contains(t, reply, "Gym")
	assert.NotContains(t, reply, "Elsewhere")
}

func TestSession_CheckEmptyDay(t *testing.T) {
	s, _ := newTestSession(t)
	reply := submit(t, s, "what's on today")
	assert.Contains(t, reply, "wide open")
}

func TestSession_CheckWeek(t *testing.T) {
	s, repo := newTestSession(t)
	ctx := context.Background()

	// Jun 9 (Mon) through Jun 15 (Sun) is the reference week.
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("In Week",
		testutil.WithDate("2025-06-13"))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("Next Month",
		testutil.WithDate("2025-07-13"))))

	reply := submit(t, s, "show me this week")
	assert.Contains(t, reply, "In Week")
	assert.NotContains(t, reply, "Next Month")
}

func TestSession_OtherFallsBackToHelp(t *testing.T) {
	s, _ := newTestSession(t)
	reply := submit(t, s, "who are you anyway")
	assert.Contains(t, reply, "Create")
	assert.Contains(t, reply, "confirm")
}

func TestSession_EmptyInput(t *testing.T) {
	s, _ := newTestSession(t)
	reply := submit(t, s, "   ")
	assert.Contains(t, reply, "didn't catch")
}
