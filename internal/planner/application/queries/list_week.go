// Package queries implements the planner's read operations.
package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/weekplan/internal/planner/domain/task"
	"github.com/google/uuid"
)

// ListWeekQuery asks for a user's tasks scheduled within a date range.
type ListWeekQuery struct {
	UserID uuid.UUID
	Start  time.Time
	End    time.Time
}

// ListWeekHandler handles the ListWeekQuery.
type ListWeekHandler struct {
	taskRepo task.Repository
}

// NewListWeekHandler creates a new ListWeekHandler.
func NewListWeekHandler(taskRepo task.Repository) *ListWeekHandler {
	return &ListWeekHandler{taskRepo: taskRepo}
}

// Handle returns tasks with scheduledDate in [Start, End] inclusive, ordered
// by position ascending.
func (h *ListWeekHandler) Handle(ctx context.Context, q ListWeekQuery) ([]*task.Task, error) {
	return h.taskRepo.FindByDateRange(ctx, q.UserID, q.Start, q.End)
}
