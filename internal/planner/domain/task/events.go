package task

import (
	"time"

	"github.com/felixgeelhaar/weekplan/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated   = "planner.task.created"
	RoutingKeyUpdated   = "planner.task.updated"
	RoutingKeyCompleted = "planner.task.completed"
	RoutingKeyDeleted   = "planner.task.deleted"
)

// TaskCreated is emitted when a new task is scheduled.
type TaskCreated struct {
	domain.BaseEvent
	UserID        uuid.UUID `json:"userId"`
	Title         string    `json:"title"`
	ScheduledDate string    `json:"scheduledDate"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(taskID, userID uuid.UUID, title string, scheduledDate time.Time) TaskCreated {
	return TaskCreated{
		BaseEvent:     domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCreated),
		UserID:        userID,
		Title:         title,
		ScheduledDate: scheduledDate.Format("2006-01-02"),
	}
}

// TaskUpdated is emitted when task fields change.
type TaskUpdated struct {
	domain.BaseEvent
	UserID uuid.UUID `json:"userId"`
	Fields []string  `json:"fields"`
}

// NewTaskUpdated creates a TaskUpdated event naming the changed fields.
func NewTaskUpdated(taskID, userID uuid.UUID, fields []string) TaskUpdated {
	return TaskUpdated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyUpdated),
		UserID:    userID,
		Fields:    fields,
	}
}

// TaskCompleted is emitted when a task is marked done.
type TaskCompleted struct {
	domain.BaseEvent
	UserID uuid.UUID `json:"userId"`
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(taskID, userID uuid.UUID) TaskCompleted {
	return TaskCompleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCompleted),
		UserID:    userID,
	}
}

// TaskDeleted is emitted when a task is removed.
type TaskDeleted struct {
	domain.BaseEvent
	UserID uuid.UUID `json:"userId"`
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(taskID, userID uuid.UUID) TaskDeleted {
	return TaskDeleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyDeleted),
		UserID:    userID,
	}
}
