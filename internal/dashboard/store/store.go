// Package store holds the client-side task state for the visible week.
//
// The store is a plain observable state container: the sync engine is its
// only writer, the presentation layer only reads it and subscribes to
// change notifications. Mutations are synchronous and never fail; updates
// or removals for unknown ids are silent no-ops.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Task is the client-side task record. ScheduledDate is a calendar date in
// ISO form (yyyy-MM-dd); Position is the zero-based rank within that date.
type Task struct {
	ID            string
	UserID        string
	Title         string
	Description   string
	ScheduledDate string
	Position      int
	Category      string
	IsCompleted   bool
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TaskPatch merges set fields into a task. Nil pointers leave the field
// unchanged. ClearCompletedAt wipes the completion stamp; it wins over a
// nil CompletedAt.
type TaskPatch struct {
	Title            *string
	Description      *string
	ScheduledDate    *string
	Category         *string
	Position         *int
	IsCompleted      *bool
	CompletedAt      *time.Time
	ClearCompletedAt bool
}

// TempIDPrefix marks locally generated placeholder ids that have not been
// confirmed by the server yet.
const TempIDPrefix = "temp-"

// IsTempID reports whether id is a local placeholder id.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// Store is the single source of truth for the currently visible window.
type Store struct {
	mu      sync.RWMutex
	tasks   []Task
	loading bool
	err     error

	nextSub int
	subs    map[int]func()
}

// New creates an empty store.
func New() *Store {
	return &Store{subs: make(map[int]func())}
}

// Subscribe registers fn to run synchronously after every mutation. The
// returned function unsubscribes.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

// SetTasks replaces the whole visible set.
func (s *Store) SetTasks(tasks []Task) {
	s.mu.Lock()
	s.tasks = append([]Task(nil), tasks...)
	s.mu.Unlock()
	s.notify()
}

// AddTask appends a task.
func (s *Store) AddTask(t Task) {
	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
	s.notify()
}

// UpdateTask merges the patch into the task with the given id. Unknown ids
// are a silent no-op.
func (s *Store) UpdateTask(id string, patch TaskPatch) {
	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		applyPatch(&s.tasks[i], patch)
		break
	}
	s.mu.Unlock()
	s.notify()
}

// ReplaceTask swaps the full record of the task with the given id. Used to
// reconcile server-confirmed state and to restore rollback snapshots.
func (s *Store) ReplaceTask(id string, t Task) {
	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = t
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

// RemoveTask deletes the task with the given id. Unknown ids are a silent
// no-op.
func (s *Store) RemoveTask(id string) {
	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

// SetLoading flips the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
	s.notify()
}

// SetError records the last sync error. Pass nil to clear it.
func (s *Store) SetError(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.notify()
}

// Tasks returns a copy of all loaded tasks.
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Task(nil), s.tasks...)
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// ForDay returns the tasks scheduled on the given date, ordered by position
// ascending. Equal positions keep their arrival order.
func (s *Store) ForDay(date string) []Task {
	s.mu.RLock()
	var day []Task
	for _, t := range s.tasks {
		if t.ScheduledDate == date {
			day = append(day, t)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(day, func(i, j int) bool {
		return day[i].Position < day[j].Position
	})
	return day
}

// Loading reports whether a load is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last recorded sync error, if any.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func applyPatch(t *Task, patch TaskPatch) {
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.ScheduledDate != nil {
		t.ScheduledDate = *patch.ScheduledDate
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Position != nil {
		t.Position = *patch.Position
	}
	if patch.IsCompleted != nil {
		t.IsCompleted = *patch.IsCompleted
	}
	switch {
	case patch.ClearCompletedAt:
		t.CompletedAt = nil
	case patch.CompletedAt != nil:
		t.CompletedAt = patch.CompletedAt
	}
}
