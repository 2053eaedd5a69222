package conversation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/timebuddy-app/timebuddy/internal/domain"
	"github.com/timebuddy-app/timebuddy/internal/llm"
	"github.com/timebuddy-app/timebuddy/internal/repository"
	"github.com/timebuddy-app/timebuddy/internal/timeparse"
)

var (
	deleteActionRe   = regexp.MustCompile(`\b(?:delete|remove|cancel|clear)\b`)
	completeActionRe = regexp.MustCompile(`\b(?:complete|completed|done|finish|finished|mark)\b`)
	bulkRe           = regexp.MustCompile(`\b(?:all|everything)\b`)
	renameRe         = regexp.MustCompile(`\b(?:rename|retitle|call)\s+(?:it|this|that)?\s*(?:to\s+)?(.+)$`)
	choiceNumberRe   = regexp.MustCompile(`^\d+$`)
)

// editRecentLimit bounds how many tasks are offered to the LLM
// resolver; the heuristic matcher always sees the full list.
const editRecentLimit = 10

// handleEdit resolves an edit utterance to one target task (or a bulk
// set) plus an action, then proposes the mutation for confirmation.
func (s *Session) handleEdit(ctx context.Context, text string) string {
	s.state.stage = domain.StageEdit
	s.state.editText = text

	tasks, err := s.repo.List(ctx)
	if err != nil {
		s.reset()
		return "I couldn't read your schedule right now. Please try again."
	}
	if len(tasks) == 0 {
		s.reset()
		return "You don't have any tasks yet. Try adding one first, like \"add gym tomorrow at 7am\"."
	}

	lower := strings.ToLower(text)
	if deleteActionRe.MatchString(lower) && bulkRe.MatchString(lower) {
		return s.proposeBulkDelete(tasks, lower)
	}

	if target, patch, ok := s.resolveByLLM(ctx, tasks, text); ok {
		return s.proposeEdit(ctx, target, strings.ToLower(s.state.editText), patch)
	}

	candidates := matchTasks(tasks, text)
	switch len(candidates) {
	case 0:
		s.state.awaitingEditTarget = true
		return "Which task do you mean? Give me a keyword from its title."
	case 1:
		return s.proposeEdit(ctx, candidates[0], lower, nil)
	default:
		s.state.awaitingEditTarget = true
		s.state.editChoices = candidates
		return renderChoiceList(candidates)
	}
}

// handleEditReply consumes a disambiguation answer or a requested
// change for an already-chosen target.
func (s *Session) handleEditReply(ctx context.Context, reply string) string {
	if isAbort(reply) {
		s.reset()
		return "Okay, never mind. Nothing was changed."
	}

	if s.state.awaitingEditChange {
		target, err := s.repo.GetByID(ctx, s.state.editTargetID)
		if errors.Is(err, repository.ErrNotFound) {
			s.reset()
			return "Hmm, that item no longer exists. Maybe it was already removed."
		}
		if err != nil {
			s.reset()
			return "I couldn't read your schedule right now. Please try again."
		}
		patch := parseChangePatch(reply, s.today())
		if patch.IsEmpty() {
			s.reset()
			return "I couldn't find a change in that. Try something like \"move it to 4pm\" or \"make it 45 minutes\"."
		}
		s.state.awaitingEditChange = false
		return s.proposeUpdate(ctx, target, patch)
	}

	// Target disambiguation.
	var target *domain.Task
	if len(s.state.editChoices) > 0 {
		if choiceNumberRe.MatchString(strings.TrimSpace(reply)) {
			n, _ := strconv.Atoi(strings.TrimSpace(reply))
			if n >= 1 && n <= len(s.state.editChoices) {
				target = s.state.editChoices[n-1]
			}
		}
		if target == nil {
			if picks := matchTasks(s.state.editChoices, reply); len(picks) == 1 {
				target = picks[0]
			}
		}
	}
	if target == nil {
		tasks, err := s.repo.List(ctx)
		if err != nil {
			s.reset()
			return "I couldn't read your schedule right now. Please try again."
		}
		picks := matchTasks(tasks, reply)
		switch len(picks) {
		case 1:
			target = picks[0]
		case 0:
			s.reset()
			return "I still couldn't find that task. Say \"what's on today\" to see your schedule."
		default:
			s.state.editChoices = picks
			return renderChoiceList(picks)
		}
	}

	s.state.awaitingEditTarget = false
	s.state.editChoices = nil
	action := strings.ToLower(s.state.editText)
	if action == "" {
		action = strings.ToLower(reply)
	}
	return s.proposeEdit(ctx, target, action, nil)
}

// proposeEdit classifies the action in text and builds the matching
// proposal for the chosen target. llmPatch, when non-nil, carries
// changes the LLM resolver already extracted.
func (s *Session) proposeEdit(ctx context.Context, target *domain.Task, text string, llmPatch *domain.TaskPatch) string {
	switch {
	case deleteActionRe.MatchString(text):
		s.state.proposal = &domain.Proposal{
			Kind:         domain.ProposalDelete,
			TargetID:     target.ID,
			Task:         target,
			Confirmation: renderDeleteConfirmation(target),
		}
		s.state.awaitingConfirmation = true
		return s.state.proposal.Confirmation

	case completeActionRe.MatchString(text):
		s.state.proposal = &domain.Proposal{
			Kind:         domain.ProposalComplete,
			TargetID:     target.ID,
			Task:         target,
			Confirmation: renderCompleteConfirmation(target),
		}
		s.state.awaitingConfirmation = true
		return s.state.proposal.Confirmation

	default:
		patch := parseChangePatch(text, s.today())
		if llmPatch != nil && !llmPatch.IsEmpty() {
			patch = *llmPatch
		}
		if patch.IsEmpty() {
			s.state.awaitingEditChange = true
			s.state.editTargetID = target.ID
			return fmt.Sprintf("What should change for **%s**? (e.g. \"move to 4pm\" or \"make it 45 minutes\")", target.Title)
		}
		return s.proposeUpdate(ctx, target, patch)
	}
}

// proposeUpdate previews the patched task and asks for confirmation.
func (s *Session) proposeUpdate(ctx context.Context, target *domain.Task, patch domain.TaskPatch) string {
	updated := *target
	if err := patch.Apply(&updated); err != nil {
		s.reset()
		return "That change doesn't add up. Nothing was modified."
	}

	conflicts, err := repository.FindConflicts(ctx, s.repo, &updated)
	if err != nil {
		conflicts = nil
	}

	s.state.proposal = &domain.Proposal{
		Kind:         domain.ProposalUpdate,
		TargetID:     target.ID,
		Task:         target,
		Patch:        patch,
		Confirmation: renderUpdateConfirmation(target, &updated, conflicts),
	}
	s.state.awaitingConfirmation = true
	return s.state.proposal.Confirmation
}

// proposeBulkDelete selects every task matching the utterance's type
// and date qualifiers and proposes removing them in one shot.
func (s *Session) proposeBulkDelete(tasks []*domain.Task, lower string) string {
	selected := tasks

	if et, ok := bulkTypeFilter(lower); ok {
		var filtered []*domain.Task
		for _, t := range selected {
			if t.Type == et {
				filtered = append(filtered, t)
			}
		}
		selected = filtered
	}

	ref := s.today()
	if strings.Contains(lower, "today") {
		date := ref.Format(domain.DateLayout)
		var filtered []*domain.Task
		for _, t := range selected {
			if t.Date == date {
				filtered = append(filtered, t)
			}
		}
		selected = filtered
	} else if strings.Contains(lower, "week") {
		from, to := weekBounds(ref)
		var filtered []*domain.Task
		for _, t := range selected {
			if t.Date >= from && t.Date <= to {
				filtered = append(filtered, t)
			}
		}
		selected = filtered
	}

	if len(selected) == 0 {
		s.reset()
		return "Nothing matches that, so there's nothing to delete."
	}

	ids := make([]string, len(selected))
	for i, t := range selected {
		ids[i] = t.ID
	}
	s.state.proposal = &domain.Proposal{
		Kind:         domain.ProposalBulkDelete,
		BulkIDs:      ids,
		Confirmation: renderBulkDeleteConfirmation(selected),
	}
	s.state.awaitingConfirmation = true
	return s.state.proposal.Confirmation
}

// resolveByLLM asks the model to pick the target and action in one
// step. Any failure, schema mismatch, or unknown id falls back to the
// heuristic matcher.
func (s *Session) resolveByLLM(ctx context.Context, tasks []*domain.Task, text string) (*domain.Task, *domain.TaskPatch, bool) {
	if s.client == nil {
		return nil, nil, false
	}

	recent := tasks
	if len(recent) > editRecentLimit {
		recent = recent[len(recent)-editRecentLimit:]
	}
	var list strings.Builder
	for _, t := range recent {
		fmt.Fprintf(&list, "- id=%s %s on %s at %s\n", t.ID, t.Title, t.Date, t.StartTime)
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskEditResolve,
		SystemPrompt: editResolveSystemPrompt,
		UserPrompt:   fmt.Sprintf(editResolveUserPromptFmt, list.String(), text),
	})
	if err != nil {
		return nil, nil, false
	}
	result, err := llm.ExtractJSON(resp.Text, validateEditActionResult)
	if err != nil {
		return nil, nil, false
	}

	var target *domain.Task
	for _, t := range tasks {
		if t.ID == result.ID {
			target = t
			break
		}
	}
	if target == nil {
		return nil, nil, false
	}

	patch, err := changesToPatch(result.Changes)
	if err != nil {
		return nil, nil, false
	}
	// Map the resolved action back onto the keyword classifier's
	// vocabulary so proposeEdit stays the single proposal builder.
	switch result.Action {
	case "delete", "complete":
		s.state.editText = result.Action
		return target, nil, true
	default:
		return target, &patch, true
	}
}

// changesToPatch converts the LLM's string-keyed change set into a
// typed patch, reusing the correction parser's leniency.
func changesToPatch(changes map[string]string) (domain.TaskPatch, error) {
	var c correctionResult
	for key, val := range changes {
		switch key {
		case "title":
			c.Title = val
		case "date":
			c.Date = val
		case "start_time":
			c.StartTime = val
		case "end_time":
			c.EndTime = val
		case "duration_minutes":
			n, err := strconv.Atoi(strings.TrimSpace(val))
			if err != nil {
				return domain.TaskPatch{}, fmt.Errorf("bad duration: %q", val)
			}
			c.DurationMin = n
		default:
			return domain.TaskPatch{}, fmt.Errorf("unknown change key: %q", key)
		}
	}
	return c.toPatch()
}

// parseChangePatch extracts the requested changes from free text: a new
// time or range, a new duration, a new date, or a rename.
func parseChangePatch(text string, reference time.Time) domain.TaskPatch {
	var patch domain.TaskPatch
	if start, end, ok := timeparse.ParseTimeRange(text); ok {
		patch.StartTime = &start
		patch.EndTime = &end
	} else if clock, ok := timeparse.ParseClock(text); ok {
		patch.StartTime = &clock
	}
	if d, ok := timeparse.ParseDurationMinutes(text); ok {
		patch.DurationMin = &d
	}
	if date, ok := timeparse.InferDateOk(text, reference); ok {
		patch.Date = &date
	}
	if m := renameRe.FindStringSubmatch(text); m != nil {
		title := timeparse.ExtractTitle(m[1])
		if title != timeparse.DefaultTitle {
			patch.Title = &title
		}
	}
	return patch
}

var editStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "my": true, "me": true,
	"to": true, "at": true, "on": true, "in": true, "for": true,
	"of": true, "and": true, "it": true, "that": true, "this": true,
	"task": true, "event": true, "item": true, "please": true,
	"delete": true, "remove": true, "cancel": true, "clear": true,
	"complete": true, "completed": true, "done": true, "finish": true,
	"finished": true, "mark": true, "as": true, "update": true,
	"change": true, "move": true, "edit": true, "reschedule": true,
	"rename": true, "today": true, "tomorrow": true, "week": true,
	"am": true, "pm": true,
}

// matchTasks finds tasks whose title shares a word with the utterance,
// after stripping command verbs and schedule noise.
func matchTasks(tasks []*domain.Task, text string) []*domain.Task {
	var keywords []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?\"'")
		if w == "" || editStopwords[w] {
			continue
		}
		if _, err := strconv.Atoi(w); err == nil {
			continue
		}
		keywords = append(keywords, w)
	}
	if len(keywords) == 0 {
		return nil
	}

	var matched []*domain.Task
	for _, t := range tasks {
		titleWords := map[string]bool{}
		for _, w := range strings.Fields(strings.ToLower(t.Title)) {
			titleWords[w] = true
		}
		for _, kw := range keywords {
			if titleWords[kw] {
				matched = append(matched, t)
				break
			}
		}
	}
	return matched
}

var bulkTypeKeywords = map[string]domain.EventType{
	"meeting":  domain.EventMeeting,
	"meetings": domain.EventMeeting,
	"work":     domain.EventWork,
	"personal": domain.EventPersonal,
	"break":    domain.EventBreak,
	"breaks":   domain.EventBreak,
}

func bulkTypeFilter(lower string) (domain.EventType, bool) {
	for _, w := range strings.Fields(lower) {
		if et, ok := bulkTypeKeywords[strings.Trim(w, ".,!?")]; ok {
			return et, true
		}
	}
	return "", false
}

// weekBounds returns Monday through Sunday of ref's week in wire format.
func weekBounds(ref time.Time) (string, string) {
	back := (int(ref.Weekday()) + 6) % 7
	monday := ref.AddDate(0, 0, -back)
	return monday.Format(domain.DateLayout), monday.AddDate(0, 0, 6).Format(domain.DateLayout)
}
