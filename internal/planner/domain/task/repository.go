package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a task id does not exist.
var ErrNotFound = errors.New("task not found")

// Repository defines task persistence.
type Repository interface {
	Save(ctx context.Context, t *Task) error

	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// FindByDateRange returns the user's tasks with scheduledDate in
	// [start, end] inclusive, ordered by position ascending.
	FindByDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*Task, error)

	// NextPosition returns 1 + the highest position on the given date for
	// the user, or 0 when the day is empty.
	NextPosition(ctx context.Context, userID uuid.UUID, date time.Time) (int, error)

	// UpdatePosition sets a single task's position, scoped to the owning
	// user. Returns ErrNotFound when no matching row exists.
	UpdatePosition(ctx context.Context, userID, id uuid.UUID, position int) error

	// Delete removes a task. Returns ErrNotFound when the id is absent.
	Delete(ctx context.Context, id uuid.UUID) error
}
