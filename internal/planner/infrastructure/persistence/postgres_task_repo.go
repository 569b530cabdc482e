// Package persistence implements the task repository for both backends.
package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/weekplan/internal/planner/domain/task"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// PostgresTaskRepository implements task.Repository using PostgreSQL.
type PostgresTaskRepository struct {
	conn database.Connection
}

// NewPostgresTaskRepository creates a PostgreSQL task repository.
func NewPostgresTaskRepository(conn database.Connection) *PostgresTaskRepository {
	return &PostgresTaskRepository{conn: conn}
}

const pgTaskColumns = `id, user_id, title, description, scheduled_date, position,
       category, completed_at, created_at, updated_at`

// Save upserts a task.
func (r *PostgresTaskRepository) Save(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (
			id, user_id, title, description, scheduled_date, position,
			category, completed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			scheduled_date = EXCLUDED.scheduled_date,
			position = EXCLUDED.position,
			category = EXCLUDED.category,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at
	`

	var description *string
	if t.Description() != "" {
		desc := t.Description()
		description = &desc
	}

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query,
		t.ID(),
		t.UserID(),
		t.Title(),
		description,
		t.ScheduledDate(),
		t.Position(),
		t.Category().String(),
		t.CompletedAt(),
		t.CreatedAt(),
		t.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a task by id.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	query := `SELECT ` + pgTaskColumns + ` FROM tasks WHERE id = $1`

	exec := database.ExecutorFromContext(ctx, r.conn)
	t, err := scanPostgresTask(exec.QueryRow(ctx, query, id))
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
func (r *PostgresTaskRepository) FindByDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*task.Task, error) {
	query := `
		SELECT ` + pgTaskColumns + `
		FROM tasks
		WHERE user_id = $1 AND scheduled_date >= $2 AND scheduled_date <= $3
		ORDER BY position
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanPostgresTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// NextPosition returns 1 + the highest position on the date, or 0.
func (r *PostgresTaskRepository) NextPosition(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	query := `
		SELECT COALESCE(MAX(position) + 1, 0)
		FROM tasks
		WHERE user_id = $1 AND scheduled_date = $2
	`

	var next int
	exec := database.ExecutorFromContext(ctx, r.conn)
	if err := exec.QueryRow(ctx, query, userID, date).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

// UpdatePosition sets a single task's position, scoped to the owning user.
func (r *PostgresTaskRepository) UpdatePosition(ctx context.Context, userID, id uuid.UUID, position int) error {
	query := `
		UPDATE tasks
		SET position = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, query, position, time.Now().UTC(), id, userID)
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
func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
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

func scanPostgresTask(row database.Row) (*task.Task, error) {
	var (
		id, userID    uuid.UUID
		title         string
		description   *string
		scheduledDate time.Time
		position      int
		category      string
		completedAt   *time.Time
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := row.Scan(&id, &userID, &title, &description, &scheduledDate, &position,
		&category, &completedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	desc := ""
	if description != nil {
		desc = *description
	}

	return task.Rehydrate(id, userID, title, desc, scheduledDate, position,
		task.Category(category), completedAt, createdAt, updatedAt), nil
}
