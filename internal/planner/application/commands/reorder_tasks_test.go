package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/weekplan/internal/planner/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReorderTasks_AssignsPositionByIndex(t *testing.T) {
	userID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	repo := new(mockTaskRepo)
	for i, id := range ids {
		repo.On("UpdatePosition", mock.Anything, userID, id, i).Return(nil)
	}

	uow := &fakeUnitOfWork{}
	handler := NewReorderTasksHandler(repo, uow, nil, nil)

	err := handler.Handle(context.Background(), ReorderTasksCommand{
		UserID:  userID,
		Date:    testDate(),
		TaskIDs: ids,
	})

	require.NoError(t, err)
	assert.True(t, uow.committed)
	repo.AssertExpectations(t)
}

func TestReorderTasks_AggregatesFailuresIntoOneError(t *testing.T) {
	userID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	repo := new(mockTaskRepo)
	repo.On("UpdatePosition", mock.Anything, userID, ids[0], 0).Return(nil)
	repo.On("UpdatePosition", mock.Anything, userID, ids[1], 1).Return(task.ErrNotFound)
	repo.On("UpdatePosition", mock.Anything, userID, ids[2], 2).Return(errors.New("disk full"))

	uow := &fakeUnitOfWork{}
	handler := NewReorderTasksHandler(repo, uow, nil, nil)

	err := handler.Handle(context.Background(), ReorderTasksCommand{
		UserID:  userID,
		Date:    testDate(),
		TaskIDs: ids,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, task.ErrNotFound)
	assert.ErrorContains(t, err, "disk full")
	assert.True(t, uow.rolledBack, "partial reorder must not persist")
}

func TestReorderTasks_EmptyListIsNoOp(t *testing.T) {
	repo := new(mockTaskRepo)
	handler := NewReorderTasksHandler(repo, &fakeUnitOfWork{}, nil, nil)

	err := handler.Handle(context.Background(), ReorderTasksCommand{UserID: uuid.New(), Date: testDate()})

	require.NoError(t, err)
	repo.AssertNotCalled(t, "UpdatePosition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteTask_RemovesAndPublishes(t *testing.T) {
	userID := uuid.New()
	tsk := existingTask(t, userID)

	repo := new(mockTaskRepo)
	repo.On("FindByID", mock.Anything, tsk.ID()).Return(tsk, nil)
	repo.On("Delete", mock.Anything, tsk.ID()).Return(nil)

	bus := &capturePublisher{}
	handler := NewDeleteTaskHandler(repo, &fakeUnitOfWork{}, bus, nil)

	err := handler.Handle(context.Background(), DeleteTaskCommand{TaskID: tsk.ID(), UserID: userID})

	require.NoError(t, err)
	assert.Equal(t, []string{task.RoutingKeyDeleted}, bus.keys)
	repo.AssertExpectations(t)
}

func TestDeleteTask_UnknownID(t *testing.T) {
	repo := new(mockTaskRepo)
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, task.ErrNotFound)

	handler := NewDeleteTaskHandler(repo, &fakeUnitOfWork{}, nil, nil)

	err := handler.Handle(context.Background(), DeleteTaskCommand{TaskID: id, UserID: uuid.New()})
	assert.ErrorIs(t, err, task.ErrNotFound)
}
