package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timebuddy-app/timebuddy/internal/domain"
	"github.com/timebuddy-app/timebuddy/internal/recurrence"
	"github.com/timebuddy-app/timebuddy/internal/repository"
	"github.com/timebuddy-app/timebuddy/internal/timeparse"
)

// defaultDurationMin applies when a task is proposed without any
// parsable duration.
const defaultDurationMin = 60

// handleCreate starts the create flow for a fresh utterance: it fills
// whatever slots the utterance already answers, then either asks for
// the first missing slot or proposes the task.
func (s *Session) handleCreate(ctx context.Context, text string) string {
	s.state.stage = domain.StageCreate
	s.state.initialText = text
	s.state.slots = map[Slot]string{}
	s.state.pattern, _ = recurrence.Detect(text)

	if title := timeparse.ExtractTitle(text); title != timeparse.DefaultTitle {
		s.state.slots[SlotTitle] = text
	}
	s.fillTimeSlots(text)

	return s.advanceCreate(ctx)
}

// handleSlotReply consumes an answer to the most recent slot question.
func (s *Session) handleSlotReply(ctx context.Context, reply string) string {
	if isAbort(reply) {
		s.reset()
		return "Okay, never mind. Nothing was saved."
	}

	asked := s.nextMissingSlot()
	if asked == "" {
		// Shouldn't happen; recover by restarting the flow.
		s.reset()
		return s.handleCreate(ctx, reply)
	}

	if asked == SlotTimeDate {
		_, _, rangeOK := timeparse.ParseTimeRange(reply)
		_, clockOK := timeparse.ParseClock(reply)
		if !rangeOK && !clockOK {
			return "Sorry, I couldn't read a time in that. " + slotQuestions[SlotTimeDate]
		}
	}
	s.state.slots[asked] = reply

	// A single reply often answers more than it was asked for
	// ("tomorrow 2-3pm" settles the duration too).
	if asked != SlotTitle {
		s.fillTimeSlots(reply)
	}

	return s.advanceCreate(ctx)
}

// handleTimeframeReply consumes the answer to "how long should this
// repeat?". An unrecognizable answer falls back to four weeks.
func (s *Session) handleTimeframeReply(ctx context.Context, reply string) string {
	if isAbort(reply) {
		s.reset()
		return "Okay, never mind. Nothing was saved."
	}
	if !s.state.pattern.ApplyTimeframe(reply) {
		s.state.pattern.Timeframe = recurrence.TimeframeWeeks
		s.state.pattern.Weeks = 4
	}
	s.state.awaitingTimeframe = false
	return s.synthesize(ctx)
}

// fillTimeSlots marks the time and duration slots answered when text
// parses for them. A time range settles both.
func (s *Session) fillTimeSlots(text string) {
	_, _, rangeOK := timeparse.ParseTimeRange(text)
	if _, ok := s.state.slots[SlotTimeDate]; !ok {
		if _, clockOK := timeparse.ParseClock(text); rangeOK || clockOK {
			s.state.slots[SlotTimeDate] = text
		}
	}
	if _, ok := s.state.slots[SlotDuration]; !ok {
		if _, durOK := timeparse.ParseDurationMinutes(text); rangeOK || durOK {
			s.state.slots[SlotDuration] = text
		}
	}
}

func (s *Session) nextMissingSlot() Slot {
	for _, slot := range slotOrder {
		if _, ok := s.state.slots[slot]; !ok {
			return slot
		}
	}
	return ""
}

// advanceCreate asks for the next missing slot, or synthesizes the
// proposal once everything is answered. One question per turn.
func (s *Session) advanceCreate(ctx context.Context) string {
	if slot := s.nextMissingSlot(); slot != "" {
		return slotQuestions[slot]
	}
	if s.state.pattern != nil && s.state.pattern.Timeframe == recurrence.TimeframeNone {
		s.state.awaitingTimeframe = true
		return "How long should this repeat? (e.g. \"for 4 weeks\", \"until Nov 20\", or \"this month\")"
	}
	return s.synthesize(ctx)
}

// synthesize builds the pending proposal from the filled slots and asks
// for confirmation. Nothing touches the store here.
func (s *Session) synthesize(ctx context.Context) string {
	ref := s.today()

	title := timeparse.ExtractTitle(s.state.slots[SlotTitle])
	timeRaw := s.state.slots[SlotTimeDate]

	date, ok := timeparse.InferDateOk(timeRaw, ref)
	if !ok {
		date, _ = timeparse.InferDateOk(s.state.initialText, ref)
	}

	var start, end string
	var durationMin int
	if st, en, rangeOK := timeparse.ParseTimeRange(timeRaw); rangeOK {
		start, end = st, en
		d, err := domain.DurationBetween(start, end)
		if err != nil {
			s.reset()
			return "That time range doesn't add up. Let's start over."
		}
		durationMin = d
	} else if st, clockOK := timeparse.ParseClock(timeRaw); clockOK {
		start = st
	} else {
		s.reset()
		return "I couldn't work out a start time for that. Let's start over."
	}

	if end == "" {
		if d, durOK := timeparse.ParseDurationMinutes(s.state.slots[SlotDuration]); durOK {
			durationMin = d
		} else {
			durationMin = defaultDurationMin
		}
		e, err := domain.CalculateEndTime(start, durationMin)
		if err != nil {
			s.reset()
			return "I couldn't work out a start time for that. Let's start over."
		}
		end = e
	}

	if s.state.pattern != nil {
		return s.proposeRecurring(title, start, durationMin, end, ref)
	}

	task := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		DurationMin: durationMin,
		Type:        domain.InferEventType(title),
		CreatedAt:   s.now(),
	}

	conflicts, err := repository.FindConflicts(ctx, s.repo, task)
	if err != nil {
		conflicts = nil // advisory only, never blocks the proposal
	}

	s.state.proposal = &domain.Proposal{
		Kind:         domain.ProposalCreate,
		Task:         task,
		Confirmation: renderCreateConfirmation(task, conflicts),
	}
	s.state.awaitingConfirmation = true
	return s.state.proposal.Confirmation
}

func (s *Session) proposeRecurring(title, start string, durationMin int, end string, ref time.Time) string {
	exp, err := recurrence.Expand(s.state.pattern, title, start, durationMin, end, ref, recurrence.MaxOccurrences)
	if err != nil {
		s.reset()
		return "I couldn't expand that recurring schedule. Let's start over."
	}
	if len(exp.Instances) == 0 {
		s.reset()
		return "That schedule doesn't land on any dates in the given timeframe, so there's nothing to save."
	}
	now := s.now()
	for _, t := range exp.Instances {
		t.ID = uuid.New().String()
		t.CreatedAt = now
	}

	s.state.proposal = &domain.Proposal{
		Kind:         domain.ProposalCreate,
		Instances:    exp.Instances,
		RecurrenceID: exp.RecurrenceID,
		Confirmation: renderRecurringConfirmation(title, start, end, exp),
	}
	s.state.awaitingConfirmation = true
	return s.state.proposal.Confirmation
}

var abortWords = map[string]bool{
	"cancel": true, "nevermind": true, "never mind": true,
	"stop": true, "forget it": true, "quit": true,
}

// isAbort lets the user back out of a mid-flow question.
func isAbort(reply string) bool {
	return abortWords[normalize(reply)]
}

// normalize lowercases and trims an utterance, dropping trailing
// punctuation so "Cancel." and "cancel" compare equal.
func normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	return strings.TrimRight(s, ".!?")
}
