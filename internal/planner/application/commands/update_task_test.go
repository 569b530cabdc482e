package commands

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/weekplan/internal/planner/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func existingTask(t *testing.T, userID uuid.UUID) *task.Task {
	t.Helper()
	tsk, err := task.NewTask(userID, "Original title", "original", testDate(), task.CategoryGeneral)
	require.NoError(t, err)
	tsk.ClearDomainEvents()
	return tsk
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }

func TestUpdateTask_MergesPartialFields(t *testing.T) {
	userID := uuid.New()
	tsk := existingTask(t, userID)

	repo := new(mockTaskRepo)
	repo.On("FindByID", mock.Anything, tsk.ID()).Return(tsk, nil)
	repo.On("Save", mock.Anything, tsk).Return(nil)

	bus := &capturePublisher{}
	handler := NewUpdateTaskHandler(repo, &fakeUnitOfWork{}, bus, nil)

	updated, err := handler.Handle(context.Background(), UpdateTaskCommand{
		TaskID: tsk.ID(),
		UserID: userID,
		Title:  strPtr("New title"),
	})

	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title())
	assert.Equal(t, "original", updated.Description(), "unset fields stay")
	assert.Equal(t, []string{task.RoutingKeyUpdated}, bus.keys)
}

func TestUpdateTask_CompleteStampsCompletedAt(t *testing.T) {
	userID := uuid.New()
	tsk := existingTask(t, userID)

	repo := new(mockTaskRepo)
	repo.On("FindByID", mock.Anything, tsk.ID()).Return(tsk, nil)
	repo.On("Save", mock.Anything, tsk).Return(nil)

	handler := NewUpdateTaskHandler(repo, &fakeUnitOfWork{}, nil, nil)

	updated, err := handler.Handle(context.Background(), UpdateTaskCommand{
		TaskID:      tsk.ID(),
		UserID:      userID,
		IsCompleted: boolPtr(true),
	})

	require.NoError(t, err)
	assert.True(t, updated.IsCompleted())
	require.NotNil(t, updated.CompletedAt())
	assert.WithinDuration(t, time.Now().UTC(), *updated.CompletedAt(), 5*time.Second)
}

func TestUpdateTask_UncompleteClearsStamp(t *testing.T) {
	userID := uuid.New()
	tsk := existingTask(t, userID)
	tsk.Complete()
	tsk.ClearDomainEvents()

	repo := new(mockTaskRepo)
	repo.On("FindByID", mock.Anything, tsk.ID()).Return(tsk, nil)
	repo.On("Save", mock.Anything, tsk).Return(nil)

	handler := NewUpdateTaskHandler(repo, &fakeUnitOfWork{}, nil, nil)

	updated, err := handler.Handle(context.Background(), UpdateTaskCommand{
		TaskID:      tsk.ID(),
		UserID:      userID,
		IsCompleted: boolPtr(false),
	})

	require.NoError(t, err)
	assert.False(t, updated.IsCompleted())
	assert.Nil(t, updated.CompletedAt())
}

func TestUpdateTask_MoveAcrossDays(t *testing.T) {
	userID := uuid.New()
	tsk := existingTask(t, userID)
	target := testDate().AddDate(0, 0, 3)

	repo := new(mockTaskRepo)
	repo.On("FindByID", mock.Anything, tsk.ID()).Return(tsk, nil)
	repo.On("Save", mock.Anything, tsk).Return(nil)

	handler := NewUpdateTaskHandler(repo, &fakeUnitOfWork{}, nil, nil)

	updated, err := handler.Handle(context.Background(), UpdateTaskCommand{
		TaskID:        tsk.ID(),
		UserID:        userID,
		ScheduledDate: &target,
		Position:      intPtr(1),
	})

	require.NoError(t, err)
	assert.Equal(t, target, updated.ScheduledDate())
	assert.Equal(t, 1, updated.Position())
}

func TestUpdateTask_UnknownID(t *testing.T) {
	repo := new(mockTaskRepo)
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, task.ErrNotFound)

	handler := NewUpdateTaskHandler(repo, &fakeUnitOfWork{}, nil, nil)

	_, err := handler.Handle(context.Background(), UpdateTaskCommand{TaskID: id, UserID: uuid.New()})
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestUpdateTask_OtherUsersTaskIsHidden(t *testing.T) {
	owner := uuid.New()
	tsk := existingTask(t, owner)

	repo := new(mockTaskRepo)
	repo.On("FindByID", mock.Anything, tsk.ID()).Return(tsk, nil)

	handler := NewUpdateTaskHandler(repo, &fakeUnitOfWork{}, nil, nil)

	_, err := handler.Handle(context.Background(), UpdateTaskCommand{
		TaskID: tsk.ID(),
		UserID: uuid.New(), // not the owner
		Title:  strPtr("hijack"),
	})

	assert.ErrorIs(t, err, task.ErrNotFound)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
