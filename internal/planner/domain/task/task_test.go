package task_test

import (
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/weekplan/internal/planner/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monday() time.Time {
	return time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)
}

func TestNewTask(t *testing.T) {
	userID := uuid.New()

	tsk, err := task.NewTask(userID, "Prepare sprint review", "slides + demo", monday(), task.CategoryMeeting)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tsk.ID())
	assert.Equal(t, userID, tsk.UserID())
	assert.Equal(t, "Prepare sprint review", tsk.Title())
	assert.Equal(t, "slides + demo", tsk.Description())
	assert.Equal(t, monday(), tsk.ScheduledDate())
	assert.Equal(t, 0, tsk.Position())
	assert.Equal(t, task.CategoryMeeting, tsk.Category())
	assert.False(t, tsk.IsCompleted())
	assert.Nil(t, tsk.CompletedAt())
}

func TestNewTask_EmitsCreatedEvent(t *testing.T) {
	tsk, err := task.NewTask(uuid.New(), "Write report", "", monday(), task.CategoryGeneral)
	require.NoError(t, err)

	events := tsk.DomainEvents()
	require.Len(t, events, 1)

	created, ok := events[0].(task.TaskCreated)
	require.True(t, ok)
	assert.Equal(t, tsk.ID(), created.AggregateID())
	assert.Equal(t, task.RoutingKeyCreated, created.RoutingKey())
	assert.Equal(t, "2025-01-20", created.ScheduledDate)
}

func TestNewTask_TitleValidation(t *testing.T) {
	tests := []struct {
		name  string
		title string
		err   error
	}{
		{"empty", "", task.ErrEmptyTitle},
		{"whitespace", "   \t", task.ErrEmptyTitle},
		{"too long", strings.Repeat("x", 101), task.ErrTitleTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := task.NewTask(uuid.New(), tt.title, "", monday(), task.CategoryGeneral)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNewTask_TitleAtLimit(t *testing.T) {
	tsk, err := task.NewTask(uuid.New(), strings.Repeat("x", 100), "", monday(), task.CategoryGeneral)
	require.NoError(t, err)
	assert.Len(t, tsk.Title(), 100)
}

func TestNewTask_DefaultsCategory(t *testing.T) {
	tsk, err := task.NewTask(uuid.New(), "Untagged", "", monday(), "")
	require.NoError(t, err)
	assert.Equal(t, task.CategoryGeneral, tsk.Category())
}

func TestParseCategory(t *testing.T) {
	for _, valid := range []string{"general", "meeting", "urgent"} {
		c, err := task.ParseCategory(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, c.String())
	}

	_, err := task.ParseCategory("someday")
	assert.ErrorIs(t, err, task.ErrInvalidCategory)
}

func TestComplete_StampsAndIsIdempotent(t *testing.T) {
	tsk, err := task.NewTask(uuid.New(), "Ship it", "", monday(), task.CategoryUrgent)
	require.NoError(t, err)
	tsk.ClearDomainEvents()

	tsk.Complete()
	require.True(t, tsk.IsCompleted())
	require.NotNil(t, tsk.CompletedAt())
	first := *tsk.CompletedAt()

	tsk.Complete()
	assert.Equal(t, first, *tsk.CompletedAt(), "second complete must not restamp")
	assert.Len(t, tsk.DomainEvents(), 1)
}

func TestReopen_ClearsCompletion(t *testing.T) {
	tsk, err := task.NewTask(uuid.New(), "Ship it", "", monday(), task.CategoryGeneral)
	require.NoError(t, err)

	tsk.Complete()
	tsk.Reopen()

	assert.False(t, tsk.IsCompleted())
	assert.Nil(t, tsk.CompletedAt())
}

func TestSetPosition(t *testing.T) {
	tsk, err := task.NewTask(uuid.New(), "Ranked", "", monday(), task.CategoryGeneral)
	require.NoError(t, err)

	require.NoError(t, tsk.SetPosition(3))
	assert.Equal(t, 3, tsk.Position())

	assert.ErrorIs(t, tsk.SetPosition(-1), task.ErrInvalidPosition)
}

func TestReschedule_NormalizesToMidnight(t *testing.T) {
	tsk, err := task.NewTask(uuid.New(), "Movable", "", monday(), task.CategoryGeneral)
	require.NoError(t, err)

	tsk.Reschedule(time.Date(2025, time.January, 23, 17, 45, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, time.January, 23, 0, 0, 0, 0, time.UTC), tsk.ScheduledDate())
}

func TestRehydrate_CarriesNoEvents(t *testing.T) {
	now := time.Now().UTC()
	done := now.Add(-time.Hour)

	tsk := task.Rehydrate(uuid.New(), uuid.New(), "Persisted", "desc", monday(), 2, task.CategoryMeeting, &done, now.Add(-2*time.Hour), now)

	assert.Empty(t, tsk.DomainEvents())
	assert.True(t, tsk.IsCompleted())
	assert.Equal(t, 2, tsk.Position())
}
