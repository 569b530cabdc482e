// Package sync implements the optimistic task synchronization engine: every
// mutating operation applies to the local store first, confirms against the
// server, and restores the pre-operation snapshot when the server rejects.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	gosync "sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/dashboard/store"
	"github.com/felixgeelhaar/weekplan/pkg/week"
)

// MaxTitleLength is the longest accepted task title, in runes.
const MaxTitleLength = 100

// Engine coordinates the task store with the remote API. A mutex serializes
// operations so overlapping calls cannot interleave snapshots and rollbacks
// on the same tasks.
type Engine struct {
	mu     gosync.Mutex
	store  *store.Store
	client Client
	logger *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewEngine creates a sync engine writing to the given store.
func NewEngine(st *store.Store, client Client, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:  st,
		client: client,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return store.TempIDPrefix + uuid.NewString() },
	}
}

// Store returns the engine's state container.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Load fetches the tasks of the given window and replaces the store
// contents. On failure the prior contents stay in place and the error is
// recorded on the store.
func (e *Engine) Load(ctx context.Context, w week.Window) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.SetLoading(true)
	defer e.store.SetLoading(false)

	tasks, err := e.client.ListTasks(ctx, w.Start, w.End)
	if err != nil {
		e.logger.Error("failed to load week", "start", week.FormatDate(w.Start), "error", err)
		e.store.SetError(err)
		return err
	}

	e.store.SetTasks(tasks)
	e.store.SetError(nil)
	return nil
}

// CreateInput is the user-supplied data for a new task.
type CreateInput struct {
	Title         string
	Description   string
	ScheduledDate string
	Category      string
}

// Create optimistically inserts a placeholder under a temporary id, then
// swaps in the server-confirmed task. On failure the placeholder is removed
// and the error returned.
func (e *Engine) Create(ctx context.Context, input CreateInput) (store.Task, error) {
	if err := validateTitle(input.Title); err != nil {
		return store.Task{}, err
	}
	if _, err := week.ParseDate(input.ScheduledDate); err != nil {
		return store.Task{}, &ValidationError{Field: "scheduledDate", Message: "must be a yyyy-MM-dd date"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	placeholder := store.Task{
		ID:            e.newID(),
		Title:         input.Title,
		Description:   input.Description,
		ScheduledDate: input.ScheduledDate,
		Position:      0,
		Category:      input.Category,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	e.store.AddTask(placeholder)

	confirmed, err := e.client.CreateTask(ctx, CreateTaskRequest{
		Title:         input.Title,
		Description:   input.Description,
		ScheduledDate: input.ScheduledDate,
		Category:      input.Category,
	})
	if err != nil {
		e.store.RemoveTask(placeholder.ID)
		return store.Task{}, fmt.Errorf("create task: %w", err)
	}

	e.store.ReplaceTask(placeholder.ID, confirmed)
	return confirmed, nil
}

// Edit optimistically merges the patch into the task, then reconciles with
// the server's view (which computes completedAt and updatedAt). On failure
// the pre-edit snapshot is restored.
func (e *Engine) Edit(ctx context.Context, id string, patch store.TaskPatch) (store.Task, error) {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return store.Task{}, err
		}
	}
	if patch.ScheduledDate != nil {
		if _, err := week.ParseDate(*patch.ScheduledDate); err != nil {
			return store.Task{}, &ValidationError{Field: "scheduledDate", Message: "must be a yyyy-MM-dd date"}
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.edit(ctx, id, patch)
}

// edit is Edit without the lock, for operations that already hold it.
func (e *Engine) edit(ctx context.Context, id string, patch store.TaskPatch) (store.Task, error) {
	snapshot, ok := e.store.Get(id)
	if !ok {
		return store.Task{}, ErrNotFound
	}

	e.store.UpdateTask(id, patch)

	confirmed, err := e.client.UpdateTask(ctx, id, UpdateTaskRequest{
		Title:         patch.Title,
		Description:   patch.Description,
		ScheduledDate: patch.ScheduledDate,
		Category:      patch.Category,
		Position:      patch.Position,
		IsCompleted:   patch.IsCompleted,
	})
	if err != nil {
		e.store.ReplaceTask(id, snapshot)
		return store.Task{}, fmt.Errorf("update task: %w", err)
	}

	e.store.ReplaceTask(id, confirmed)
	return confirmed, nil
}

// Complete marks the task completed or not. The server stamps completedAt
// on the transition.
func (e *Engine) Complete(ctx context.Context, id string, completed bool) (store.Task, error) {
	return e.Edit(ctx, id, store.TaskPatch{IsCompleted: &completed})
}

// Delete optimistically removes the task; on failure the snapshot is
// re-inserted.
func (e *Engine) Delete(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot, ok := e.store.Get(id)
	if !ok {
		return ErrNotFound
	}

	e.store.RemoveTask(id)

	if err := e.client.DeleteTask(ctx, id); err != nil {
		e.store.AddTask(snapshot)
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ReorderWithinDay renumbers the given tasks 0..n-1 in the given order,
// optimistically and then on the server. A failed batch call restores every
// affected task's prior position; partial server failure counts as total
// failure.
func (e *Engine) ReorderWithinDay(ctx context.Context, date string, orderedIDs []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(orderedIDs) == 0 {
		return nil
	}

	prior := make(map[string]int, len(orderedIDs))
	for _, id := range orderedIDs {
		t, ok := e.store.Get(id)
		if !ok {
			return ErrNotFound
		}
		prior[id] = t.Position
	}

	for i, id := range orderedIDs {
		pos := i
		e.store.UpdateTask(id, store.TaskPatch{Position: &pos})
	}

	if err := e.client.ReorderTasks(ctx, date, orderedIDs); err != nil {
		for id, pos := range prior {
			p := pos
			e.store.UpdateTask(id, store.TaskPatch{Position: &p})
		}
		return fmt.Errorf("reorder tasks: %w", err)
	}
	return nil
}

// MoveToDay moves a task to another date, splicing it into the target day's
// ordering at newPosition and renumbering that day densely. Two remote
// calls confirm the move: the task's own update, then the batch reposition
// of the target day. If either fails, both the moved task and the target
// day's prior positions are restored.
func (e *Engine) MoveToDay(ctx context.Context, id, toDate string, newPosition int) error {
	if _, err := week.ParseDate(toDate); err != nil {
		return &ValidationError{Field: "toDate", Message: "must be a yyyy-MM-dd date"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot, ok := e.store.Get(id)
	if !ok {
		return ErrNotFound
	}
	if snapshot.ScheduledDate == toDate {
		return e.reorderTaskToIndex(ctx, toDate, id, newPosition)
	}

	targetDay := e.store.ForDay(toDate)
	targetPrior := make(map[string]int, len(targetDay))
	for _, t := range targetDay {
		targetPrior[t.ID] = t.Position
	}

	if newPosition < 0 {
		newPosition = 0
	}
	if newPosition > len(targetDay) {
		newPosition = len(targetDay)
	}

	// Splice the moved task into the target ordering.
	orderedIDs := make([]string, 0, len(targetDay)+1)
	for _, t := range targetDay[:newPosition] {
		orderedIDs = append(orderedIDs, t.ID)
	}
	orderedIDs = append(orderedIDs, id)
	for _, t := range targetDay[newPosition:] {
		orderedIDs = append(orderedIDs, t.ID)
	}

	e.store.UpdateTask(id, store.TaskPatch{ScheduledDate: &toDate})
	for i, tid := range orderedIDs {
		pos := i
		e.store.UpdateTask(tid, store.TaskPatch{Position: &pos})
	}

	restore := func() {
		e.store.ReplaceTask(id, snapshot)
		for tid, pos := range targetPrior {
			p := pos
			e.store.UpdateTask(tid, store.TaskPatch{Position: &p})
		}
	}

	if _, err := e.client.UpdateTask(ctx, id, UpdateTaskRequest{
		ScheduledDate: &toDate,
		Position:      &newPosition,
	}); err != nil {
		restore()
		return fmt.Errorf("move task: %w", err)
	}

	if err := e.client.ReorderTasks(ctx, toDate, orderedIDs); err != nil {
		restore()
		return fmt.Errorf("move task: reposition target day: %w", err)
	}
	return nil
}

// reorderTaskToIndex moves one task of a day to a new index, expressed
// as a full-day reorder. Caller must hold the engine lock.
func (e *Engine) reorderTaskToIndex(ctx context.Context, date, id string, newIndex int) error {
	day := e.store.ForDay(date)
	ids := make([]string, 0, len(day))
	oldIndex := -1
	for i, t := range day {
		ids = append(ids, t.ID)
		if t.ID == id {
			oldIndex = i
		}
	}
	if oldIndex == -1 {
		return ErrNotFound
	}

	moved := arrayMove(ids, oldIndex, newIndex)

	prior := make(map[string]int, len(day))
	for _, t := range day {
		prior[t.ID] = t.Position
	}
	for i, tid := range moved {
		pos := i
		e.store.UpdateTask(tid, store.TaskPatch{Position: &pos})
	}

	if err := e.client.ReorderTasks(ctx, date, moved); err != nil {
		for tid, pos := range prior {
			p := pos
			e.store.UpdateTask(tid, store.TaskPatch{Position: &p})
		}
		return fmt.Errorf("reorder tasks: %w", err)
	}
	return nil
}

// arrayMove returns a copy of ids with the element at from moved to to.
// Out-of-range indices are clamped.
func arrayMove(ids []string, from, to int) []string {
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

func validateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return &ValidationError{Field: "title", Message: fmt.Sprintf("must be at most %d characters", MaxTitleLength)}
	}
	return nil
}
