package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/timebuddy-app/timebuddy/internal/domain"
	"github.com/timebuddy-app/timebuddy/internal/llm"
	"github.com/timebuddy-app/timebuddy/internal/recurrence"
	"github.com/timebuddy-app/timebuddy/internal/repository"
)

// Config wires a Session's collaborators. Client may be nil; every LLM
// call site then takes its heuristic path.
type Config struct {
	Repo     repository.TaskRepo
	Client   llm.Client
	Router   *Router
	Timezone *time.Location
	Now      func() time.Time // defaults to time.Now
}

// Session is one user's conversation. All state lives here, owned by
// the caller; operations are synchronous and the design assumes a
// single logical conversation per Session (see the repository for the
// matching single-writer assumption).
type Session struct {
	repo   repository.TaskRepo
	client llm.Client
	router *Router
	tz     *time.Location
	now    func() time.Time

	state sessionState
}

// sessionState tracks the multi-turn dialogue. The zero value is IDLE.
type sessionState struct {
	stage domain.Stage

	// create slot filling
	slots       map[Slot]string
	initialText string
	pattern     *recurrence.Pattern
	awaitingTimeframe bool

	// confirmation: at most one proposal is live at a time. The router
	// bypass guarantees nothing else can replace it while it is pending.
	awaitingConfirmation bool
	proposal             *domain.Proposal

	// edit disambiguation
	awaitingEditTarget bool
	awaitingEditChange bool
	editChoices        []*domain.Task
	editTargetID       string
	editText           string
}

// NewSession creates a conversation session over the given agenda store.
func NewSession(cfg Config) *Session {
	tz := cfg.Timezone
	if tz == nil {
		tz = time.Local
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	router := cfg.Router
	if router == nil {
		router = NewRouter(cfg.Client, 0.7)
	}
	return &Session{
		repo:   cfg.Repo,
		client: cfg.Client,
		router: router,
		tz:     tz,
		now:    now,
	}
}

// Submit processes one user utterance and returns the assistant's
// reply. Failures of any kind render as chat text; the returned error
// is reserved for context cancellation.
func (s *Session) Submit(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "I didn't catch that. What would you like to do?", nil
	}

	// Confirmation handling takes absolute precedence over routing.
	if s.state.awaitingConfirmation {
		return s.handleConfirmation(ctx, text), nil
	}

	// Mid-dialogue replies stay inside their flow.
	if s.state.stage == domain.StageCreate {
		if s.state.awaitingTimeframe {
			return s.handleTimeframeReply(ctx, text), nil
		}
		if s.state.slots != nil {
			return s.handleSlotReply(ctx, text), nil
		}
	}
	if s.state.stage == domain.StageEdit && (s.state.awaitingEditTarget || s.state.awaitingEditChange) {
		return s.handleEditReply(ctx, text), nil
	}

	// Recurring phrasing is a create even without a create verb:
	// "every thursday for 4 weeks, study at 6pm" names a schedule, but
	// its scope words would score as CHECK under keyword routing.
	if _, ok := recurrence.Detect(text); ok && !hasEditKeyword(text) {
		return s.handleCreate(ctx, text), nil
	}

	decision := s.router.Route(ctx, text, false)
	switch decision.Stage {
	case domain.StageCreate:
		return s.handleCreate(ctx, text), nil
	case domain.StageEdit:
		return s.handleEdit(ctx, text), nil
	case domain.StageCheck:
		return s.handleCheck(ctx, text), nil
	default:
		return s.handleOther(ctx, text), nil
	}
}

// GetTasks is the read-side entry point for UI layers.
func (s *Session) GetTasks(ctx context.Context, filter TaskFilter) ([]*domain.Task, error) {
	switch {
	case filter.Date != "":
		return s.repo.ListByDate(ctx, filter.Date)
	case filter.From != "" && filter.To != "":
		return s.repo.ListByDateRange(ctx, filter.From, filter.To)
	default:
		return s.repo.List(ctx)
	}
}

// SetTimezone changes the session's reference timezone. It affects
// date inference for subsequent utterances only.
func (s *Session) SetTimezone(loc *time.Location) {
	if loc != nil {
		s.tz = loc
	}
}

// Timezone returns the session's current reference timezone.
func (s *Session) Timezone() *time.Location {
	return s.tz
}

// AwaitingConfirmation reports whether a proposal is pending.
func (s *Session) AwaitingConfirmation() bool {
	return s.state.awaitingConfirmation
}

// PendingProposal returns the live proposal, or nil.
func (s *Session) PendingProposal() *domain.Proposal {
	return s.state.proposal
}

// reset clears all dialogue state back to IDLE. Called after every
// commit, discard, or stage exit.
func (s *Session) reset() {
	s.state = sessionState{}
}

// today returns the reference date in the session's timezone.
func (s *Session) today() time.Time {
	return s.now().In(s.tz)
}

func (s *Session) handleOther(ctx context.Context, text string) string {
	if s.client != nil {
		resp, err := s.client.Generate(ctx, llm.GenerateRequest{
			Task:         llm.TaskChat,
			SystemPrompt: chatSystemPrompt,
			UserPrompt:   text,
		})
		if err == nil && strings.TrimSpace(resp.Text) != "" {
			s.reset()
			return strings.TrimSpace(resp.Text)
		}
	}
	s.reset()
	return helpText
}

const helpText = `I can help you manage your schedule:
- Create: "add team meeting tomorrow at 2pm for 1 hour"
- Recurring: "gym every Tuesday at 7am for 4 weeks"
- Edit: "move my workout to 8am", "delete the standup"
- Check: "what's on today?", "show me this week"
Every change is proposed first and saved only after you confirm.`
