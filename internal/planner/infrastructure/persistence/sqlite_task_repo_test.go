package persistence_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/weekplan/internal/planner/domain/task"
	"github.com/felixgeelhaar/weekplan/internal/planner/infrastructure/persistence"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *persistence.SQLiteTaskRepository {
	t.Helper()
	ctx := context.Background()

	conn, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrations.Run(ctx, conn))

	return persistence.NewSQLiteTaskRepository(conn)
}

func mondayDate() time.Time {
	return time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)
}

func newTaskAt(t *testing.T, userID uuid.UUID, title string, date time.Time, position int) *task.Task {
	t.Helper()
	tsk, err := task.NewTask(userID, title, "", date, task.CategoryGeneral)
	require.NoError(t, err)
	require.NoError(t, tsk.SetPosition(position))
	return tsk
}

func TestSQLiteTaskRepository_SaveAndFindByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	tsk, err := task.NewTask(userID, "Persisted task", "with description", mondayDate(), task.CategoryMeeting)
	require.NoError(t, err)
	tsk.Complete()

	require.NoError(t, repo.Save(ctx, tsk))

	found, err := repo.FindByID(ctx, tsk.ID())
	require.NoError(t, err)
	assert.Equal(t, tsk.ID(), found.ID())
	assert.Equal(t, userID, found.UserID())
	assert.Equal(t, "Persisted task", found.Title())
	assert.Equal(t, "with description", found.Description())
	assert.Equal(t, mondayDate(), found.ScheduledDate())
	assert.Equal(t, task.CategoryMeeting, found.Category())
	assert.True(t, found.IsCompleted())
	require.NotNil(t, found.CompletedAt())
	assert.WithinDuration(t, *tsk.CompletedAt(), *found.CompletedAt(), time.Millisecond)
}

func TestSQLiteTaskRepository_SaveUpdatesExisting(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	tsk := newTaskAt(t, userID, "Before", mondayDate(), 0)
	require.NoError(t, repo.Save(ctx, tsk))

	require.NoError(t, tsk.SetTitle("After"))
	tsk.Reschedule(mondayDate().AddDate(0, 0, 2))
	require.NoError(t, repo.Save(ctx, tsk))

	found, err := repo.FindByID(ctx, tsk.ID())
	require.NoError(t, err)
	assert.Equal(t, "After", found.Title())
	assert.Equal(t, mondayDate().AddDate(0, 0, 2), found.ScheduledDate())
}

func TestSQLiteTaskRepository_FindByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestSQLiteTaskRepository_FindByDateRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	inside1 := newTaskAt(t, userID, "Monday second", mondayDate(), 1)
	inside2 := newTaskAt(t, userID, "Monday first", mondayDate(), 0)
	inside3 := newTaskAt(t, userID, "Sunday", mondayDate().AddDate(0, 0, 6), 0)
	before := newTaskAt(t, userID, "Previous week", mondayDate().AddDate(0, 0, -1), 0)
	other := newTaskAt(t, uuid.New(), "Someone else", mondayDate(), 0)

	for _, tsk := range []*task.Task{inside1, inside2, inside3, before, other} {
		require.NoError(t, repo.Save(ctx, tsk))
	}

	got, err := repo.FindByDateRange(ctx, userID, mondayDate(), mondayDate().AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered by position ascending.
	assert.Equal(t, 0, got[0].Position())
	assert.LessOrEqual(t, got[0].Position(), got[1].Position())
}

func TestSQLiteTaskRepository_NextPosition(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	next, err := repo.NextPosition(ctx, userID, mondayDate())
	require.NoError(t, err)
	assert.Equal(t, 0, next, "empty day starts at zero")

	require.NoError(t, repo.Save(ctx, newTaskAt(t, userID, "a", mondayDate(), 0)))
	require.NoError(t, repo.Save(ctx, newTaskAt(t, userID, "b", mondayDate(), 2)))

	next, err = repo.NextPosition(ctx, userID, mondayDate())
	require.NoError(t, err)
	assert.Equal(t, 3, next)
}

func TestSQLiteTaskRepository_UpdatePosition(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	tsk := newTaskAt(t, userID, "Movable", mondayDate(), 0)
	require.NoError(t, repo.Save(ctx, tsk))

	require.NoError(t, repo.UpdatePosition(ctx, userID, tsk.ID(), 5))

	found, err := repo.FindByID(ctx, tsk.ID())
	require.NoError(t, err)
	assert.Equal(t, 5, found.Position())

	// Scoped to the owning user.
	err = repo.UpdatePosition(ctx, uuid.New(), tsk.ID(), 9)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestSQLiteTaskRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	tsk := newTaskAt(t, userID, "Doomed", mondayDate(), 0)
	require.NoError(t, repo.Save(ctx, tsk))

	require.NoError(t, repo.Delete(ctx, tsk.ID()))

	_, err := repo.FindByID(ctx, tsk.ID())
	assert.ErrorIs(t, err, task.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, tsk.ID()), task.ErrNotFound)
}
