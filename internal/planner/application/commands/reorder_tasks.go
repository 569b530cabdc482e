package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/weekplan/internal/planner/domain/task"
	sharedApplication "github.com/felixgeelhaar/weekplan/internal/shared/application"
	"github.com/felixgeelhaar/weekplan/internal/shared/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// ReorderTasksCommand assigns position = index to each task id, in order.
type ReorderTasksCommand struct {
	UserID  uuid.UUID
	Date    time.Time
	TaskIDs []uuid.UUID
}

// ReorderTasksHandler handles the ReorderTasksCommand.
type ReorderTasksHandler struct {
	taskRepo task.Repository
	uow      sharedApplication.UnitOfWork
	bus      eventbus.Publisher
	logger   *slog.Logger
}

// NewReorderTasksHandler creates a new ReorderTasksHandler.
func NewReorderTasksHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, bus eventbus.Publisher, logger *slog.Logger) *ReorderTasksHandler {
	return &ReorderTasksHandler{taskRepo: taskRepo, uow: uow, bus: bus, logger: logger}
}

// Handle renumbers the given tasks 0..n-1, scoped to the calling user.
// Per-id failures are aggregated into one error; the surrounding transaction
// rolls back so a partly applied reorder never persists.
func (h *ReorderTasksHandler) Handle(ctx context.Context, cmd ReorderTasksCommand) error {
	if len(cmd.TaskIDs) == 0 {
		return nil
	}

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var errs []error
		for position, id := range cmd.TaskIDs {
			if err := h.taskRepo.UpdatePosition(txCtx, cmd.UserID, id, position); err != nil {
				errs = append(errs, fmt.Errorf("task %s: %w", id, err))
			}
		}
		return errors.Join(errs...)
	})
	if err != nil {
		return err
	}

	events := make([]domain.DomainEvent, 0, len(cmd.TaskIDs))
	for _, id := range cmd.TaskIDs {
		events = append(events, task.NewTaskUpdated(id, cmd.UserID, []string{"position"}))
	}
	publishEvents(ctx, h.bus, h.logger, events)

	return nil
}
