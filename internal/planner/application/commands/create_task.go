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

// CreateTaskCommand contains the data needed to schedule a task.
type CreateTaskCommand struct {
	UserID        uuid.UUID
	Title         string
	Description   string
	ScheduledDate time.Time
	Category      string
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo task.Repository
	uow      sharedApplication.UnitOfWork
	bus      eventbus.Publisher
	logger   *slog.Logger
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository, uow sharedApplication.UnitOfWork, bus eventbus.Publisher, logger *slog.Logger) *CreateTaskHandler {
	return &CreateTaskHandler{taskRepo: taskRepo, uow: uow, bus: bus, logger: logger}
}

// Handle creates the task at the end of its day's column: the new position
// is 1 + the day's highest position, or 0 on an empty day.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*task.Task, error) {
	category, err := task.ParseCategory(cmd.Category)
	if err != nil {
		return nil, err
	}

	var created *task.Task
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := task.NewTask(cmd.UserID, cmd.Title, cmd.Description, cmd.ScheduledDate, category)
		if err != nil {
			return err
		}

		position, err := h.taskRepo.NextPosition(txCtx, cmd.UserID, t.ScheduledDate())
		if err != nil {
			return err
		}
		if err := t.SetPosition(position); err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, h.bus, h.logger, created.DomainEvents())
	created.ClearDomainEvents()

	return created, nil
}
