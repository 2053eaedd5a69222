package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/timebuddy-app/timebuddy/internal/domain"
)

// Task options
type TaskOption func(*domain.Task)

func WithDate(date string) TaskOption {
	return func(t *domain.Task) {
		t.Date = date
	}
}

func WithTimes(start, end string) TaskOption {
	return func(t *domain.Task) {
		t.StartTime = start
		t.EndTime = end
		if d, err := domain.DurationBetween(start, end); err == nil {
			t.DurationMin = d
		}
	}
}

func WithType(et domain.EventType) TaskOption {
	return func(t *domain.Task) {
		t.Type = et
	}
}

func WithCompleted() TaskOption {
	return func(t *domain.Task) {
		t.Completed = true
	}
}

func WithRecurrenceID(id string) TaskOption {
	return func(t *domain.Task) {
		t.RecurrenceID = id
	}
}

// NewTestTask builds a valid one-hour task for 2025-06-10 09:00 unless
// options say otherwise.
func NewTestTask(title string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Date:        "2025-06-10",
		StartTime:   "09:00",
		EndTime:     "10:00",
		DurationMin: 60,
		Type:        domain.InferEventType(title),
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
