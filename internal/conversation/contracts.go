// Package conversation implements the multi-turn scheduling dialogue:
// intent routing, slot filling for task creation, edit-target
// disambiguation, and the propose / confirm / correct / commit cycle.
package conversation

import (
	"fmt"
	"strings"

	"github.com/timebuddy-app/timebuddy/internal/domain"
	"github.com/timebuddy-app/timebuddy/internal/timeparse"
)

// Slot names one piece of information the create flow collects before
// proposing a task. Clarifying questions ask for exactly one missing
// slot at a time, in slotOrder.
type Slot string

const (
	SlotTitle    Slot = "title"
	SlotTimeDate Slot = "time_date"
	SlotDuration Slot = "duration"
)

var slotOrder = []Slot{SlotTitle, SlotTimeDate, SlotDuration}

var slotQuestions = map[Slot]string{
	SlotTitle:    "What should I call this task?",
	SlotTimeDate: "When should it happen? (e.g. \"tomorrow at 2pm\" or \"Friday 9-10am\")",
	SlotDuration: "How long should it take? (e.g. \"45 minutes\" or \"2 hours\")",
}

// RouteDecision is the router's verdict for one utterance.
type RouteDecision struct {
	Stage      domain.Stage
	Confidence float64
}

// routeResult is the tagged-union JSON shape expected from the LLM
// route tie-breaker. Any schema mismatch is treated as "no result".
type routeResult struct {
	Stage      string  `json:"stage"`
	Confidence float64 `json:"confidence"`
}

func validateRouteResult(r routeResult) error {
	if !domain.IsValidStage(domain.Stage(r.Stage)) {
		return fmt.Errorf("unknown stage: %q", r.Stage)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence must be in [0,1], got %f", r.Confidence)
	}
	return nil
}

// editActionResult is the tagged-union JSON shape expected from the LLM
// edit-target resolver.
type editActionResult struct {
	Action  string            `json:"action"` // delete | complete | update
	ID      string            `json:"id"`
	Changes map[string]string `json:"changes,omitempty"`
}

func validateEditActionResult(r editActionResult) error {
	switch r.Action {
	case "delete", "complete", "update":
	default:
		return fmt.Errorf("unknown action: %q", r.Action)
	}
	if r.ID == "" {
		return fmt.Errorf("missing target id")
	}
	return nil
}

// correctionResult is the tagged-union JSON shape expected from the LLM
// correction extractor during confirmation.
type correctionResult struct {
	Title       string `json:"title,omitempty"`
	Date        string `json:"date,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	DurationMin int    `json:"duration_minutes,omitempty"`
}

func (c correctionResult) empty() bool {
	return c.Title == "" && c.Date == "" && c.StartTime == "" &&
		c.EndTime == "" && c.DurationMin == 0
}

// toPatch converts the wire shape into a domain patch, leniently
// re-parsing fields the model returned in natural language rather than
// wire format ("4pm" instead of "16:00").
func (c correctionResult) toPatch() (domain.TaskPatch, error) {
	var p domain.TaskPatch
	if c.Title != "" {
		title := strings.TrimSpace(c.Title)
		p.Title = &title
	}
	if c.Date != "" {
		if _, err := domain.ParseDate(c.Date); err != nil {
			return p, fmt.Errorf("bad date in correction: %w", err)
		}
		d := c.Date
		p.Date = &d
	}
	if c.StartTime != "" {
		clock, ok := timeparse.ParseClock(c.StartTime)
		if !ok {
			return p, fmt.Errorf("bad start time in correction: %q", c.StartTime)
		}
		p.StartTime = &clock
	}
	if c.EndTime != "" {
		clock, ok := timeparse.ParseClock(c.EndTime)
		if !ok {
			return p, fmt.Errorf("bad end time in correction: %q", c.EndTime)
		}
		p.EndTime = &clock
	}
	if c.DurationMin != 0 {
		if c.DurationMin < 0 {
			return p, fmt.Errorf("negative duration in correction: %d", c.DurationMin)
		}
		d := c.DurationMin
		p.DurationMin = &d
	}
	return p, nil
}

// TaskFilter selects tasks for the read-side GetTasks call.
type TaskFilter struct {
	Date string // exact date, wire format
	From string // inclusive range start, wire format
	To   string // inclusive range end, wire format
}
