// Package drag interprets drag gestures into reorder or cross-day move
// intents and delegates them to the sync engine.
package drag

import (
	"context"

	"github.com/felixgeelhaar/weekplan/internal/dashboard/store"
	"github.com/felixgeelhaar/weekplan/pkg/week"
)

// Engine is the subset of the sync engine the controller drives.
type Engine interface {
	ReorderWithinDay(ctx context.Context, date string, orderedIDs []string) error
	MoveToDay(ctx context.Context, id, toDate string, newPosition int) error
}

// State of the drag gesture.
type State int

const (
	// Idle means no drag is active.
	Idle State = iota
	// Dragging means a task is being dragged.
	Dragging
)

// Controller is a state machine over a single drag gesture. Only one drag
// is active at a time; the pointer-event source enforces that.
type Controller struct {
	store  *store.Store
	engine Engine

	state  State
	active store.Task
}

// NewController creates an idle drag controller.
func NewController(st *store.Store, engine Engine) *Controller {
	return &Controller{store: st, engine: engine}
}

// State returns the current gesture state.
func (c *Controller) State() State {
	return c.state
}

// Active returns the task being dragged, valid only while Dragging.
func (c *Controller) Active() store.Task {
	return c.active
}

// Start begins a drag for the given task id. Unknown ids leave the
// controller idle.
func (c *Controller) Start(id string) bool {
	t, ok := c.store.Get(id)
	if !ok {
		return false
	}
	c.state = Dragging
	c.active = t
	return true
}

// Cancel resets to idle with no engine call and no state change.
func (c *Controller) Cancel() {
	c.state = Idle
	c.active = store.Task{}
}

// ResolveTarget picks the drop target from simultaneous collision hits: a
// task-level hit always wins over the coarser day-container hit, so
// reordering inside a day takes precedence over a cross-day container drop.
func ResolveTarget(taskHit, containerHit string) string {
	if taskHit != "" {
		return taskHit
	}
	return containerHit
}

// Drop ends the drag over the given target token and performs the implied
// intent. A day token (yyyy-MM-dd) appends to that day; a task token
// targets that task's date and index. Dropping a task onto itself is a
// no-op. The controller is idle afterwards regardless of outcome.
func (c *Controller) Drop(ctx context.Context, target string) error {
	if c.state != Dragging {
		return nil
	}
	active := c.active
	c.Cancel()

	if target == "" || target == active.ID {
		return nil
	}

	toDate, newIndex, ok := c.resolve(active, target)
	if !ok {
		return nil
	}

	if toDate == active.ScheduledDate {
		day := c.store.ForDay(toDate)
		ids := make([]string, 0, len(day))
		oldIndex := -1
		for i, t := range day {
			ids = append(ids, t.ID)
			if t.ID == active.ID {
				oldIndex = i
			}
		}
		if oldIndex == -1 || oldIndex == newIndex {
			return nil
		}
		return c.engine.ReorderWithinDay(ctx, toDate, moveID(ids, oldIndex, newIndex))
	}

	return c.engine.MoveToDay(ctx, active.ID, toDate, newIndex)
}

// resolve maps a drop token to a target date and index.
func (c *Controller) resolve(active store.Task, target string) (string, int, bool) {
	if week.IsDateToken(target) {
		// Day container: append to the end of that day. The dragged task
		// does not count against the target length when it already lives
		// there.
		day := c.store.ForDay(target)
		index := len(day)
		for _, t := range day {
			if t.ID == active.ID {
				index--
				break
			}
		}
		return target, index, true
	}

	over, ok := c.store.Get(target)
	if !ok {
		return "", 0, false
	}
	day := c.store.ForDay(over.ScheduledDate)
	for i, t := range day {
		if t.ID == over.ID {
			return over.ScheduledDate, i, true
		}
	}
	return "", 0, false
}

// moveID returns ids with the element at from moved to to.
func moveID(ids []string, from, to int) []string {
	out := append([]string(nil), ids...)
	if from < 0 || from >= len(out) {
		return out
	}
	if to < 0 {
		to = 0
	}
	if to >= len(out) {
		to = len(out) - 1
	}
	id := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]string{id}, out[to:]...)...)
	return out
}
