package conversation

import (
	"context"
	"strings"

	"github.com/timebuddy-app/timebuddy/internal/domain"
)

// handleCheck answers schedule questions. Scope keywords pick the
// window; anything unqualified means today.
func (s *Session) handleCheck(ctx context.Context, text string) string {
	s.reset()
	lower := strings.ToLower(text)
	ref := s.today()

	switch {
	case strings.Contains(lower, "week"):
		from, to := weekBounds(ref)
		tasks, err := s.repo.ListByDateRange(ctx, from, to)
		if err != nil {
			return "I couldn't read your schedule right now. Please try again."
		}
		return renderAgenda("This week", tasks)

	case strings.Contains(lower, "tomorrow"):
		date := ref.AddDate(0, 0, 1).Format(domain.DateLayout)
		tasks, err := s.repo.ListByDate(ctx, date)
		if err != nil {
			return "I couldn't read your schedule right now. Please try again."
		}
		return renderAgenda("Tomorrow", tasks)

	default:
		tasks, err := s.repo.ListByDate(ctx, ref.Format(domain.DateLayout))
		if err != nil {
			return "I couldn't read your schedule right now. Please try again."
		}
		return renderAgenda("Today", tasks)
	}
}
