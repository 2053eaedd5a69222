package domain

import "strings"

// Stage is the conversational intent category an utterance is routed to.
type Stage string

const (
	StageCreate Stage = "CREATE"
	StageEdit   Stage = "EDIT"
	StageCheck  Stage = "CHECK"
	StageOther  Stage = "OTHER"
	StageNone   Stage = ""
)

// routedStages lists the routable stages in tie-break priority order:
// on equal keyword scores CREATE wins over EDIT, EDIT over CHECK,
// CHECK over OTHER.
var routedStages = []Stage{StageCreate, StageEdit, StageCheck, StageOther}

// RoutedStages returns the routable stages in declaration order.
func RoutedStages() []Stage {
	out := make([]Stage, len(routedStages))
	copy(out, routedStages)
	return out
}

// IsValidStage reports whether s is one of the four routable stages.
func IsValidStage(s Stage) bool {
	for _, v := range routedStages {
		if s == v {
			return true
		}
	}
	return false
}

// EventType categorizes a task for display grouping.
type EventType string

const (
	EventWork     EventType = "work"
	EventMeeting  EventType = "meeting"
	EventPersonal EventType = "personal"
	EventBreak    EventType = "break"
)

var eventTypeKeywords = []struct {
	typ   EventType
	words []string
}{
	{EventMeeting, []string{"meeting", "standup", "call", "presentation", "interview"}},
	{EventBreak, []string{"break", "lunch", "coffee", "dinner", "breakfast"}},
	{EventPersonal, []string{"personal", "gym", "workout", "appointment", "exercise"}},
}

// InferEventType guesses the event type from title keywords.
// Titles matching no keyword group default to work.
func InferEventType(title string) EventType {
	lower := strings.ToLower(title)
	for _, group := range eventTypeKeywords {
		for _, w := range group.words {
			if strings.Contains(lower, w) {
				return group.typ
			}
		}
	}
	return EventWork
}
