package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTasksReplacesAll(t *testing.T) {
	s := New()
	s.AddTask(Task{ID: "a"})

	s.SetTasks([]Task{{ID: "b"}, {ID: "c"}})

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "b", tasks[0].ID)
	assert.Equal(t, "c", tasks[1].ID)
}

func TestUpdateTaskMergesFields(t *testing.T) {
	s := New()
	s.AddTask(Task{ID: "a", Title: "old", Position: 2, ScheduledDate: "2025-01-20"})

	title := "new"
	s.UpdateTask("a", TaskPatch{Title: &title})

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, 2, got.Position)
	assert.Equal(t, "2025-01-20", got.ScheduledDate)
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	s := New()
	s.AddTask(Task{ID: "a", Title: "keep"})

	title := "new"
	s.UpdateTask("missing", TaskPatch{Title: &title})
	s.RemoveTask("missing")

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "keep", tasks[0].Title)
}

func TestRemoveTask(t *testing.T) {
	s := New()
	s.AddTask(Task{ID: "a"})
	s.AddTask(Task{ID: "b"})

	s.RemoveTask("a")

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "b", tasks[0].ID)
}

func TestForDaySortsByPosition(t *testing.T) {
	s := New()
	s.SetTasks([]Task{
		{ID: "c", ScheduledDate: "2025-01-20", Position: 2},
		{ID: "a", ScheduledDate: "2025-01-20", Position: 0},
		{ID: "other", ScheduledDate: "2025-01-21", Position: 1},
		{ID: "b", ScheduledDate: "2025-01-20", Position: 1},
	})

	day := s.ForDay("2025-01-20")
	require.Len(t, day, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{day[0].ID, day[1].ID, day[2].ID})
}

func TestForDayStableOnEqualPositions(t *testing.T) {
	s := New()
	s.SetTasks([]Task{
		{ID: "first", ScheduledDate: "2025-01-20", Position: 1},
		{ID: "second", ScheduledDate: "2025-01-20", Position: 1},
	})

	day := s.ForDay("2025-01-20")
	require.Len(t, day, 2)
	assert.Equal(t, "first", day[0].ID)
	assert.Equal(t, "second", day[1].ID)
}

func TestSubscribeNotifiesSynchronously(t *testing.T) {
	s := New()

	calls := 0
	unsubscribe := s.Subscribe(func() { calls++ })

	s.AddTask(Task{ID: "a"})
	s.SetLoading(true)
	s.SetError(errors.New("boom"))
	assert.Equal(t, 3, calls)

	unsubscribe()
	s.RemoveTask("a")
	assert.Equal(t, 3, calls)
}

func TestLoadingAndError(t *testing.T) {
	s := New()

	s.SetLoading(true)
	assert.True(t, s.Loading())
	s.SetLoading(false)
	assert.False(t, s.Loading())

	err := errors.New("fetch failed")
	s.SetError(err)
	assert.Equal(t, err, s.Err())
	s.SetError(nil)
	assert.NoError(t, s.Err())
}

func TestIsTempID(t *testing.T) {
	assert.True(t, IsTempID("temp-123"))
	assert.False(t, IsTempID("123"))
}

func TestReplaceTask(t *testing.T) {
	s := New()
	s.AddTask(Task{ID: "temp-1", Title: "draft", Position: 0})

	s.ReplaceTask("temp-1", Task{ID: "real", Title: "draft", Position: 3})

	_, ok := s.Get("temp-1")
	assert.False(t, ok)
	got, ok := s.Get("real")
	require.True(t, ok)
	assert.Equal(t, 3, got.Position)
}
