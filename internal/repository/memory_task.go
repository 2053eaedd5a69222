package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/timebuddy-app/timebuddy/internal/domain"
)

// MemoryTaskRepo is an in-memory TaskRepo for ephemeral sessions and
// tests. The design assumes a single conversation per store; the mutex
// only guards against accidental cross-goroutine use.
type MemoryTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task
}

// NewMemoryTaskRepo creates an empty in-memory TaskRepo.
func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *MemoryTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tasks[t.ID]; exists {
		return fmt.Errorf("task %s already exists", t.ID)
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *MemoryTaskRepo) CreateBatch(ctx context.Context, tasks []*domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tasks {
		if _, exists := r.tasks[t.ID]; exists {
			return fmt.Errorf("task %s already exists", t.ID)
		}
	}
	for _, t := range tasks {
		cp := *t
		r.tasks[t.ID] = &cp
	}
	return nil
}

func (r *MemoryTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task: %w", ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (r *MemoryTaskRepo) List(ctx context.Context) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(func(*domain.Task) bool { return true }), nil
}

func (r *MemoryTaskRepo) ListByDate(ctx context.Context, date string) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(func(t *domain.Task) bool { return t.Date == date }), nil
}

func (r *MemoryTaskRepo) ListByDateRange(ctx context.Context, from, to string) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(func(t *domain.Task) bool { return t.Date >= from && t.Date <= to }), nil
}

func (r *MemoryTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[t.ID]; !ok {
		return fmt.Errorf("task: %w", ErrNotFound)
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *MemoryTaskRepo) SetCompleted(ctx context.Context, id string, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return fmt.Errorf("task: %w", ErrNotFound)
	}
	t.Completed = completed
	return nil
}

func (r *MemoryTaskRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return fmt.Errorf("task: %w", ErrNotFound)
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryTaskRepo) DeleteMany(ctx context.Context, ids []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var missing []string
	for _, id := range ids {
		if _, ok := r.tasks[id]; !ok {
			missing = append(missing, id)
		}
	}
	for _, id := range ids {
		delete(r.tasks, id)
	}
	return missing, nil
}

// snapshot copies matching tasks sorted by (date, start_time).
func (r *MemoryTaskRepo) snapshot(match func(*domain.Task) bool) []*domain.Task {
	var out []*domain.Task
	for _, t := range r.tasks {
		if match(t) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out
}
