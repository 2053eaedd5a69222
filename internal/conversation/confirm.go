package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/timebuddy-app/timebuddy/internal/domain"
	"github.com/timebuddy-app/timebuddy/internal/llm"
	"github.com/timebuddy-app/timebuddy/internal/repository"
	"github.com/timebuddy-app/timebuddy/internal/timeparse"
)

var affirmativeWords = []string{
	"yes", "yep", "yeah", "y", "ok", "okay", "sure", "save", "confirm", "👍", "✅",
}

var negativeWords = []string{
	"no", "nope", "nah", "n", "cancel", "nevermind", "never", "discard", "👎", "❌",
}

// firstWordIn matches on the reply's first word only, so "yes please"
// confirms but "you're wrong" does not.
func firstWordIn(s string, words []string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	first := strings.TrimRight(fields[0], ".,!?")
	for _, w := range words {
		if first == w {
			return true
		}
	}
	return false
}

// handleConfirmation consumes the user's answer to a pending proposal.
// Yes commits, no discards, a recognizable correction amends the
// proposal in place, and anything else re-prompts. This path runs
// before routing, so no new intent can displace a live proposal.
func (s *Session) handleConfirmation(ctx context.Context, text string) string {
	norm := normalize(text)

	if firstWordIn(norm, affirmativeWords) {
		return s.commit(ctx)
	}
	if firstWordIn(norm, negativeWords) {
		s.reset()
		return "Okay, discarded. Nothing was saved."
	}

	if patch, ok := s.extractCorrection(ctx, text); ok {
		return s.applyCorrection(ctx, patch)
	}

	return "I'm still waiting on the last proposal. Reply \"yes\" to save it or \"no\" to discard it.\n\n" +
		s.state.proposal.Confirmation
}

// commit applies the pending proposal to the store. Persistence
// failures surface as chat text; the proposal is dropped either way so
// the session never wedges.
func (s *Session) commit(ctx context.Context) string {
	p := s.state.proposal
	s.reset()

	switch p.Kind {
	case domain.ProposalCreate:
		if p.Recurring() {
			if err := s.repo.CreateBatch(ctx, p.Instances); err != nil {
				return "I couldn't save that series. Nothing was stored."
			}
			return fmt.Sprintf("Saved! %d sessions of **%s** are on your schedule.",
				len(p.Instances), p.Instances[0].Title)
		}
		if err := s.repo.Create(ctx, p.Task); err != nil {
			return "I couldn't save that. Nothing was stored."
		}
		return fmt.Sprintf("Saved! **%s** is on your schedule for %s at %s.",
			p.Task.Title, p.Task.Date, p.Task.StartTime)

	case domain.ProposalUpdate:
		target, err := s.repo.GetByID(ctx, p.TargetID)
		if errors.Is(err, repository.ErrNotFound) {
			return "Hmm, that item no longer exists. Maybe it was already removed."
		}
		if err != nil {
			return "I couldn't save that change. Nothing was modified."
		}
		updated := *target
		if err := p.Patch.Apply(&updated); err != nil {
			return "That change doesn't add up anymore. Nothing was modified."
		}
		if err := s.repo.Update(ctx, &updated); err != nil {
			return "I couldn't save that change. Nothing was modified."
		}
		return fmt.Sprintf("Updated! **%s** is now %s at %s.",
			updated.Title, updated.Date, updated.StartTime)

	case domain.ProposalComplete:
		if err := s.repo.SetCompleted(ctx, p.TargetID, true); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "Hmm, that item no longer exists. Maybe it was already removed."
			}
			return "I couldn't mark that done. Please try again."
		}
		return fmt.Sprintf("Nice, **%s** is marked done. ✓", p.Task.Title)

	case domain.ProposalDelete:
		if err := s.repo.Delete(ctx, p.TargetID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "Hmm, that item no longer exists. Maybe it was already removed."
			}
			return "I couldn't delete that. Please try again."
		}
		return fmt.Sprintf("Deleted **%s**.", p.Task.Title)

	case domain.ProposalBulkDelete:
		missing, err := s.repo.DeleteMany(ctx, p.BulkIDs)
		if err != nil {
			return "I couldn't delete those. Nothing was removed."
		}
		deleted := len(p.BulkIDs) - len(missing)
		if len(missing) > 0 {
			return fmt.Sprintf("Deleted %d tasks. %d couldn't be found and were skipped.",
				deleted, len(missing))
		}
		return fmt.Sprintf("Deleted %d tasks.", deleted)

	default:
		return "Something went sideways with that proposal. Nothing was saved."
	}
}

// applyCorrection merges the patch into the live proposal and re-renders
// the confirmation. The session stays in the awaiting state.
func (s *Session) applyCorrection(ctx context.Context, patch domain.TaskPatch) string {
	p := s.state.proposal

	switch p.Kind {
	case domain.ProposalCreate:
		if p.Recurring() {
			for _, t := range p.Instances {
				// Date corrections don't apply to an expanded series.
				instPatch := patch
				instPatch.Date = nil
				if err := instPatch.Apply(t); err != nil {
					return "That correction doesn't add up. " + p.Confirmation
				}
			}
			first := p.Instances[0]
			p.Confirmation = renderRecurringSummary(first, len(p.Instances)) + "\n\nSave this?"
			return p.Confirmation
		}
		if err := patch.Apply(p.Task); err != nil {
			return "That correction doesn't add up. " + p.Confirmation
		}
		conflicts, err := repository.FindConflicts(ctx, s.repo, p.Task)
		if err != nil {
			conflicts = nil
		}
		p.Confirmation = renderCreateConfirmation(p.Task, conflicts)
		return p.Confirmation

	case domain.ProposalUpdate:
		merged := p.Patch
		if patch.Title != nil {
			merged.Title = patch.Title
		}
		if patch.Date != nil {
			merged.Date = patch.Date
		}
		if patch.StartTime != nil {
			merged.StartTime = patch.StartTime
			merged.EndTime = nil
		}
		if patch.EndTime != nil {
			merged.EndTime = patch.EndTime
		}
		if patch.DurationMin != nil {
			merged.DurationMin = patch.DurationMin
			merged.EndTime = nil
		}
		updated := *p.Task
		if err := merged.Apply(&updated); err != nil {
			return "That correction doesn't add up. " + p.Confirmation
		}
		p.Patch = merged
		conflicts, err := repository.FindConflicts(ctx, s.repo, &updated)
		if err != nil {
			conflicts = nil
		}
		p.Confirmation = renderUpdateConfirmation(p.Task, &updated, conflicts)
		return p.Confirmation

	default:
		// Deletions and completions have nothing to correct.
		return "I'm still waiting on the last proposal. Reply \"yes\" to save it or \"no\" to discard it.\n\n" +
			p.Confirmation
	}
}

// extractCorrection tries the LLM first, then a deterministic parse of
// the reply. Both failing means the reply wasn't a correction.
func (s *Session) extractCorrection(ctx context.Context, text string) (domain.TaskPatch, bool) {
	if s.client != nil {
		resp, err := s.client.Generate(ctx, llm.GenerateRequest{
			Task:         llm.TaskCorrection,
			SystemPrompt: correctionSystemPrompt,
			UserPrompt:   fmt.Sprintf(correctionUserPromptFmt, s.state.proposal.Confirmation, text),
		})
		if err == nil {
			if result, err := llm.ExtractJSON(resp.Text, func(correctionResult) error { return nil }); err == nil && !result.empty() {
				if patch, err := result.toPatch(); err == nil && !patch.IsEmpty() {
					return patch, true
				}
			}
		}
	}
	return heuristicCorrection(text, s.today())
}

// heuristicCorrection reads corrections like "make it 4pm instead" or
// "actually 45 minutes" without a model: any parsable time, range,
// duration, or date in the reply counts.
func heuristicCorrection(text string, reference time.Time) (domain.TaskPatch, bool) {
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
	return patch, !patch.IsEmpty()
}
