package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/weekplan/internal/planner/domain/task"
	sharedApplication "github.com/felixgeelhaar/weekplan/internal/shared/application"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// UpdateTaskCommand applies a partial update. Nil pointers leave the field
// unchanged.
type UpdateTaskCommand struct {
	TaskID        uuid.UUID
	UserID        uuid.UUID
	Title         *string
	Description   *string
	ScheduledDate *time.Time
	Category      *string
	Position      *int
	IsCompleted   *bool
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	taskRepo task.Repository
	uow      sharedApplication.UnitOfWork
	bus      eventbus.Publisher
	logger   *slog.Logger
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, bus eventbus.Publisher, logger *slog.Logger) *UpdateTaskHandler {
	return &UpdateTaskHandler{taskRepo: taskRepo, uow: uow, bus: bus, logger: logger}
}

// Handle merges the command's set fields into the task. Completion stamps
// completedAt; un-completing clears it. Tasks owned by other users are
// reported as not found.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (*task.Task, error) {
	var updated *task.Task

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if t.UserID() != cmd.UserID {
			return task.ErrNotFound
		}

		var fields []string

		if cmd.Title != nil {
			if err := t.SetTitle(*cmd.Title); err != nil {
				return err
			}
			fields = append(fields, "title")
		}
		if cmd.Description != nil {
			t.SetDescription(*cmd.Description)
			fields = append(fields, "description")
		}
		if cmd.Category != nil {
			category, err := task.ParseCategory(*cmd.Category)
			if err != nil {
				return err
			}
			if err := t.SetCategory(category); err != nil {
				return err
			}
			fields = append(fields, "category")
		}
		if cmd.ScheduledDate != nil {
			t.Reschedule(*cmd.ScheduledDate)
			fields = append(fields, "scheduledDate")
		}
		if cmd.Position != nil {
			if err := t.SetPosition(*cmd.Position); err != nil {
				return err
			}
			fields = append(fields, "position")
		}
		if cmd.IsCompleted != nil {
			if *cmd.IsCompleted {
				t.Complete()
			} else {
				t.Reopen()
			}
			fields = append(fields, "isCompleted")
		}

		if len(fields) > 0 {
			t.AddDomainEvent(task.NewTaskUpdated(t.ID(), t.UserID(), fields))
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, h.bus, h.logger, updated.DomainEvents())
	updated.ClearDomainEvents()

	return updated, nil
}
