package drag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/dashboard/store"
)

type recordingEngine struct {
	reorderDate string
	reorderIDs  []string
	movedID     string
	movedDate   string
	movedIndex  int
	calls       int
}

func (e *recordingEngine) ReorderWithinDay(_ context.Context, date string, ids []string) error {
	e.calls++
	e.reorderDate = date
	e.reorderIDs = ids
	return nil
}

func (e *recordingEngine) MoveToDay(_ context.Context, id, toDate string, newPosition int) error {
	e.calls++
	e.movedID = id
	e.movedDate = toDate
	e.movedIndex = newPosition
	return nil
}

func newFixture() (*store.Store, *recordingEngine, *Controller) {
	st := store.New()
	st.SetTasks([]store.Task{
		{ID: "a", ScheduledDate: "2025-01-20", Position: 0},
		{ID: "b", ScheduledDate: "2025-01-20", Position: 1},
		{ID: "c", ScheduledDate: "2025-01-20", Position: 2},
		{ID: "x", ScheduledDate: "2025-01-21", Position: 0},
	})
	engine := &recordingEngine{}
	return st, engine, NewController(st, engine)
}

func TestStartCapturesActiveTask(t *testing.T) {
	_, _, c := newFixture()

	require.True(t, c.Start("a"))
	assert.Equal(t, Dragging, c.State())
	assert.Equal(t, "a", c.Active().ID)
}

func TestStartUnknownIDStaysIdle(t *testing.T) {
	_, _, c := newFixture()

	assert.False(t, c.Start("missing"))
	assert.Equal(t, Idle, c.State())
}

func TestCancelResetsWithoutEngineCall(t *testing.T) {
	_, engine, c := newFixture()

	require.True(t, c.Start("a"))
	c.Cancel()

	assert.Equal(t, Idle, c.State())
	assert.Zero(t, engine.calls)
}

func TestDropOnSelfIsNoOp(t *testing.T) {
	st, engine, c := newFixture()
	before := st.Tasks()

	require.True(t, c.Start("a"))
	require.NoError(t, c.Drop(context.Background(), "a"))

	assert.Zero(t, engine.calls)
	assert.Equal(t, before, st.Tasks())
	assert.Equal(t, Idle, c.State())
}

func TestDropOnTaskSameDayReorders(t *testing.T) {
	_, engine, c := newFixture()

	require.True(t, c.Start("a"))
	require.NoError(t, c.Drop(context.Background(), "c"))

	assert.Equal(t, "2025-01-20", engine.reorderDate)
	assert.Equal(t, []string{"b", "c", "a"}, engine.reorderIDs)
	assert.Empty(t, engine.movedID)
}

func TestDropOnTaskOtherDayMoves(t *testing.T) {
	_, engine, c := newFixture()

	require.True(t, c.Start("a"))
	require.NoError(t, c.Drop(context.Background(), "x"))

	assert.Equal(t, "a", engine.movedID)
	assert.Equal(t, "2025-01-21", engine.movedDate)
	assert.Equal(t, 0, engine.movedIndex)
	assert.Empty(t, engine.reorderIDs)
}

func TestDropOnDayContainerAppends(t *testing.T) {
	_, engine, c := newFixture()

	require.True(t, c.Start("a"))
	require.NoError(t, c.Drop(context.Background(), "2025-01-21"))

	assert.Equal(t, "a", engine.movedID)
	assert.Equal(t, "2025-01-21", engine.movedDate)
	assert.Equal(t, 1, engine.movedIndex, "append after the day's single task")
}

func TestDropOnOwnDayContainerMovesToEnd(t *testing.T) {
	_, engine, c := newFixture()

	require.True(t, c.Start("a"))
	require.NoError(t, c.Drop(context.Background(), "2025-01-20"))

	assert.Equal(t, "2025-01-20", engine.reorderDate)
	assert.Equal(t, []string{"b", "c", "a"}, engine.reorderIDs)
}

func TestDropOnUnknownTargetIsNoOp(t *testing.T) {
	_, engine, c := newFixture()

	require.True(t, c.Start("a"))
	require.NoError(t, c.Drop(context.Background(), "missing-task"))

	assert.Zero(t, engine.calls)
	assert.Equal(t, Idle, c.State())
}

func TestDropWhileIdleIsNoOp(t *testing.T) {
	_, engine, c := newFixture()

	require.NoError(t, c.Drop(context.Background(), "b"))
	assert.Zero(t, engine.calls)
}

func TestResolveTargetPrefersTaskHit(t *testing.T) {
	assert.Equal(t, "task-1", ResolveTarget("task-1", "2025-01-20"))
	assert.Equal(t, "2025-01-20", ResolveTarget("", "2025-01-20"))
	assert.Empty(t, ResolveTarget("", ""))
}
