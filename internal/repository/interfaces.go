package repository

import (
	"context"
	"errors"

	"github.com/timebuddy-app/timebuddy/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// TaskRepo is the authoritative agenda store.
type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error

	// CreateBatch inserts a recurring series atomically.
	CreateBatch(ctx context.Context, tasks []*domain.Task) error

	GetByID(ctx context.Context, id string) (*domain.Task, error)

	// List returns all tasks ordered by (date, start_time).
	List(ctx context.Context) ([]*domain.Task, error)

	ListByDate(ctx context.Context, date string) ([]*domain.Task, error)

	// ListByDateRange returns tasks with from <= date <= to, ordered by
	// (date, start_time). Dates are wire-format strings, so lexical
	// comparison is chronological.
	ListByDateRange(ctx context.Context, from, to string) ([]*domain.Task, error)

	Update(ctx context.Context, t *domain.Task) error
	SetCompleted(ctx context.Context, id string, completed bool) error
	Delete(ctx context.Context, id string) error

	// DeleteMany removes the given ids atomically and reports which ids
	// did not exist. A partial-failure never leaves some of the found
	// ids deleted and others not.
	DeleteMany(ctx context.Context, ids []string) (missing []string, err error)
}
