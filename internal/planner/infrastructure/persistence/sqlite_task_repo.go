package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/weekplan/internal/planner/domain/task"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/weekplan/pkg/week"
	"github.com/google/uuid"
)

// SQLiteTaskRepository implements task.Repository using SQLite. Ids and
// timestamps are stored as text; dates use the wire format so range
// comparisons sort correctly.
type SQLiteTaskRepository struct {
	conn database.Connection
}

// NewSQLiteTaskRepository creates a SQLite task repository.
func NewSQLiteTaskRepository(conn database.Connection) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{conn: conn}
}

const sqliteTaskColumns = `id, user_id, title, description, scheduled_date, position,
       category, completed_at, created_at, updated_at`

// Save upserts a task.
func (r *SQLiteTaskRepository) Save(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (
			id, user_id, title, description, scheduled_date, position,
			category, completed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			scheduled_date = excluded.scheduled_date,
			position = excluded.position,
			category = excluded.category,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at
	`

	var description *string
	if t.Description() != "" {
		desc := t.Description()
		description = &desc
	}

	var completedAt *string
	if t.CompletedAt() != nil {
		s := t.CompletedAt().Format(time.RFC3339Nano)
		completedAt = &s
	}

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query,
		t.ID().String(),
		t.UserID().String(),
		t.Title(),
		description,
		week.FormatDate(t.ScheduledDate()),
		t.Position(),
		t.Category().String(),
		completedAt,
		t.CreatedAt().Format(time.RFC3339Nano),
		t.UpdatedAt().Format(time.RFC3339Nano),
	)
	return err
}

// FindByID retrieves a task by id.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	query := `SELECT ` + sqliteTaskColumns + ` FROM tasks WHERE id = ?`

	exec := database.ExecutorFromContext(ctx, r.conn)
	t, err := scanSQLiteTask(exec.QueryRow(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, task.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// FindByDateRange retrieves the user's tasks within [start, end] inclusive,
// ordered by position ascending.
func (r *SQLiteTaskRepository) FindByDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*task.Task, error) {
	query := `
		SELECT ` + sqliteTaskColumns + `
		FROM tasks
		WHERE user_id = ? AND scheduled_date >= ? AND scheduled_date <= ?
		ORDER BY position
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, userID.String(), week.FormatDate(start), week.FormatDate(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// NextPosition returns 1 + the highest position on the date, or 0.
func (r *SQLiteTaskRepository) NextPosition(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	query := `
		SELECT COALESCE(MAX(position) + 1, 0)
		FROM tasks
		WHERE user_id = ? AND scheduled_date = ?
	`

	var next int
	exec := database.ExecutorFromContext(ctx, r.conn)
	if err := exec.QueryRow(ctx, query, userID.String(), week.FormatDate(date)).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

// UpdatePosition sets a single task's position, scoped to the owning user.
func (r *SQLiteTaskRepository) UpdatePosition(ctx context.Context, userID, id uuid.UUID, position int) error {
	query := `
		UPDATE tasks
		SET position = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, query, position, time.Now().UTC().Format(time.RFC3339Nano), id.String(), userID.String())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return task.ErrNotFound
	}
	return nil
}

// Delete removes a task by id.
func (r *SQLiteTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return task.ErrNotFound
	}
	return nil
}

func scanSQLiteTask(row database.Row) (*task.Task, error) {
	var (
		idStr, userStr string
		title          string
		description    *string
		dateStr        string
		position       int
		category       string
		completedStr   *string
		createdStr     string
		updatedStr     string
	)

	err := row.Scan(&idStr, &userStr, &title, &description, &dateStr, &position,
		&category, &completedStr, &createdStr, &updatedStr)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid task id in database: %w", err)
	}
	userID, err := uuid.Parse(userStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in database: %w", err)
	}
	scheduledDate, err := week.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduled date in database: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at in database: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, updatedStr)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at in database: %w", err)
	}

	var completedAt *time.Time
	if completedStr != nil {
		ts, err := time.Parse(time.RFC3339Nano, *completedStr)
		if err != nil {
			return nil, fmt.Errorf("invalid completed_at in database: %w", err)
		}
		completedAt = &ts
	}

	desc := ""
	if description != nil {
		desc = *description
	}

	return task.Rehydrate(id, userID, title, desc, scheduledDate, position,
		task.Category(category), completedAt, createdAt, updatedAt), nil
}
