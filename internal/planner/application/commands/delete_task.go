package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/weekplan/internal/planner/domain/task"
	sharedApplication "github.com/felixgeelhaar/weekplan/internal/shared/application"
	"github.com/felixgeelhaar/weekplan/internal/shared/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// DeleteTaskCommand removes a task.
type DeleteTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	taskRepo task.Repository
	uow      sharedApplication.UnitOfWork
	bus      eventbus.Publisher
	logger   *slog.Logger
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, bus eventbus.Publisher, logger *slog.Logger) *DeleteTaskHandler {
	return &DeleteTaskHandler{taskRepo: taskRepo, uow: uow, bus: bus, logger: logger}
}

// Handle deletes the task. Unknown ids and tasks owned by other users both
// return task.ErrNotFound.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) error {
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if t.UserID() != cmd.UserID {
			return task.ErrNotFound
		}

		return h.taskRepo.Delete(txCtx, cmd.TaskID)
	})
	if err != nil {
		return err
	}

	publishEvents(ctx, h.bus, h.logger, []domain.DomainEvent{
		task.NewTaskDeleted(cmd.TaskID, cmd.UserID),
	})

	return nil
}
