package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/timebuddy-app/timebuddy/internal/db"
	"github.com/timebuddy-app/timebuddy/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, title, date, start_time, end_time, duration_min,
		type, completed, recurrence_id, created_at`

// SQLiteTaskRepo implements TaskRepo over a SQLite database. It accepts
// a db.DBTX so the same code serves both plain and transactional use.
type SQLiteTaskRepo struct {
	db    db.DBTX
	sqlDB *sql.DB // nil when the repo itself is tx-scoped
}

// NewSQLiteTaskRepo creates a TaskRepo over the given database handle.
func NewSQLiteTaskRepo(database *sql.DB) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: database, sqlDB: database}
}

// newTxTaskRepo creates a repo scoped to an open transaction.
func newTxTaskRepo(tx db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: tx}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		t.Date,
		t.StartTime,
		t.EndTime,
		t.DurationMin,
		string(t.Type),
		boolToInt(t.Completed),
		nullableString(t.RecurrenceID),
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) CreateBatch(ctx context.Context, tasks []*domain.Task) error {
	if r.sqlDB == nil {
		for _, t := range tasks {
			if err := r.Create(ctx, t); err != nil {
				return err
			}
		}
		return nil
	}
	return db.RunInTx(ctx, r.sqlDB, func(ctx context.Context, tx db.DBTX) error {
		txRepo := newTxTaskRepo(tx)
		for _, t := range tasks {
			if err := txRepo.Create(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return r.scanTask(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteTaskRepo) List(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY date, start_time`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListByDate(ctx context.Context, date string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE date = ? ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by date: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListByDateRange(ctx context.Context, from, to string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE date >= ? AND date <= ? ORDER BY date, start_time`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by date range: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET title = ?, date = ?, start_time = ?, end_time = ?,
		duration_min = ?, type = ?, completed = ?, recurrence_id = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.Date,
		t.StartTime,
		t.EndTime,
		t.DurationMin,
		string(t.Type),
		boolToInt(t.Completed),
		nullableString(t.RecurrenceID),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteTaskRepo) SetCompleted(ctx context.Context, id string, completed bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET completed = ? WHERE id = ?`, boolToInt(completed), id)
	if err != nil {
		return fmt.Errorf("setting task completion: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteTaskRepo) DeleteMany(ctx context.Context, ids []string) ([]string, error) {
	var missing []string
	run := func(ctx context.Context, tx db.DBTX) error {
		missing = missing[:0]
		for _, id := range ids {
			res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
			if err != nil {
				return fmt.Errorf("deleting task %s: %w", id, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("checking delete of task %s: %w", id, err)
			}
			if n == 0 {
				missing = append(missing, id)
			}
		}
		return nil
	}

	if r.sqlDB == nil {
		if err := run(ctx, r.db); err != nil {
			return nil, err
		}
		return missing, nil
	}
	if err := db.RunInTx(ctx, r.sqlDB, run); err != nil {
		return nil, err
	}
	return missing, nil
}

func (r *SQLiteTaskRepo) scanTask(row *sql.Row) (*domain.Task, error) {
	var t domain.Task
	var typ string
	var completed int
	var recurrenceID sql.NullString
	var createdAt string

	err := row.Scan(&t.ID, &t.Title, &t.Date, &t.StartTime, &t.EndTime,
		&t.DurationMin, &typ, &completed, &recurrenceID, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Type = domain.EventType(typ)
	t.Completed = intToBool(completed)
	if recurrenceID.Valid {
		t.RecurrenceID = recurrenceID.String
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		t.CreatedAt = ts
	}
	return &t, nil
}

func (r *SQLiteTaskRepo) scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var out []*domain.Task
	for rows.Next() {
		var t domain.Task
		var typ string
		var completed int
		var recurrenceID sql.NullString
		var createdAt string

		err := rows.Scan(&t.ID, &t.Title, &t.Date, &t.StartTime, &t.EndTime,
			&t.DurationMin, &typ, &completed, &recurrenceID, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}

		t.Type = domain.EventType(typ)
		t.Completed = intToBool(completed)
		if recurrenceID.Valid {
			t.RecurrenceID = recurrenceID.String
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			t.CreatedAt = ts
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}
	return out, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task: %w", ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
