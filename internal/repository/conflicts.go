package repository

import (
	"context"

	"github.com/timebuddy-app/timebuddy/internal/domain"
)

// FindConflicts returns existing tasks on the candidate's date whose
// [start, end) interval intersects the candidate's. The candidate's own
// prior version (matching id) is excluded. Purely advisory: conflicts
// are surfaced in confirmation messages but never block a save.
func FindConflicts(ctx context.Context, repo TaskRepo, candidate *domain.Task) ([]*domain.Task, error) {
	sameDay, err := repo.ListByDate(ctx, candidate.Date)
	if err != nil {
		return nil, err
	}
	var out []*domain.Task
	for _, existing := range sameDay {
		if candidate.Overlaps(existing) {
			out = append(out, existing)
		}
	}
	return out, nil
}
