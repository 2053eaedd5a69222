package conversation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/timebuddy-app/timebuddy/internal/domain"
	"github.com/timebuddy-app/timebuddy/internal/llm"
)

// stageKeywords maps each routable stage to its scoring table. Scoring
// counts distinct keyword hits in the lowercased utterance.
var stageKeywords = map[domain.Stage][]string{
	domain.StageCreate: {
		"add", "schedule", "create", "plan", "book", "set up", "set",
		"block time", "block", "reminder", "remind", "new task", "new",
	},
	domain.StageEdit: {
		"move", "reschedule", "change", "delay", "extend", "rename",
		"delete", "remove", "cancel", "shorten", "postpone", "shift",
		"update", "modify", "edit", "complete", "done", "finish",
	},
	domain.StageCheck: {
		"show", "what's", "view", "list", "display", "see",
		"agenda", "calendar", "schedule", "due", "upcoming",
		"today", "tomorrow", "week", "month", "status",
	},
	domain.StageOther: {
		"help", "settings", "timezone", "about", "how", "what can",
		"role", "rules", "explain", "configure",
	},
}

// hasEditKeyword reports whether text names an edit action. It keeps
// recurring phrasing like "delete my daily standup" out of the create
// short-circuit in Submit.
func hasEditKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range stageKeywords[domain.StageEdit] {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Router classifies an utterance into a stage using weighted keyword
// scoring, deferring to the LLM only when keyword confidence is low.
type Router struct {
	client    llm.Client
	threshold float64
}

// NewRouter creates a Router. client may be nil, in which case the
// keyword decision is always final.
func NewRouter(client llm.Client, confidenceThreshold float64) *Router {
	if confidenceThreshold <= 0 || confidenceThreshold > 1 {
		confidenceThreshold = 0.7
	}
	return &Router{client: client, threshold: confidenceThreshold}
}

// Route classifies text. When a confirmation is pending, routing is
// bypassed entirely: the pending proposal always handles the reply, so
// a new stage can never preempt it. This is a hard precedence rule, not
// a heuristic.
func (r *Router) Route(ctx context.Context, text string, awaitingConfirmation bool) RouteDecision {
	if awaitingConfirmation {
		return RouteDecision{Stage: domain.StageOther, Confidence: 1.0}
	}

	decision := r.classifyByKeywords(text)
	if decision.Confidence >= r.threshold {
		return decision
	}

	if llmDecision, ok := r.classifyByLLM(ctx, text); ok {
		return llmDecision
	}
	return decision
}

func (r *Router) classifyByKeywords(text string) RouteDecision {
	lower := strings.ToLower(text)

	type scored struct {
		stage domain.Stage
		score int
	}
	scores := make([]scored, 0, 4)
	total := 0
	for _, stage := range domain.RoutedStages() {
		n := 0
		for _, kw := range stageKeywords[stage] {
			if strings.Contains(lower, kw) {
				n++
			}
		}
		scores = append(scores, scored{stage, n})
		total += n
	}

	// Stable sort keeps declaration order on equal scores, so the
	// tie-break is CREATE > EDIT > CHECK > OTHER.
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	best := scores[0]
	if best.score == 0 {
		return RouteDecision{Stage: domain.StageOther, Confidence: 0.3}
	}

	confidence := float64(best.score) / float64(total)
	if confidence > 0.9 {
		confidence = 0.9
	}
	return RouteDecision{Stage: best.stage, Confidence: confidence}
}

// classifyByLLM asks the model to break the tie. Any failure, including
// malformed output, reports ok=false so the keyword decision stands; an
// LLM outage must never block routing.
func (r *Router) classifyByLLM(ctx context.Context, text string) (RouteDecision, bool) {
	if r.client == nil {
		return RouteDecision{}, false
	}

	resp, err := r.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskRoute,
		SystemPrompt: routeSystemPrompt,
		UserPrompt:   fmt.Sprintf(routeUserPromptFmt, text),
	})
	if err != nil {
		return RouteDecision{}, false
	}

	result, err := llm.ExtractJSON[routeResult](resp.Text, validateRouteResult)
	if err != nil {
		return RouteDecision{}, false
	}
	return RouteDecision{
		Stage:      domain.Stage(result.Stage),
		Confidence: result.Confidence,
	}, true
}
