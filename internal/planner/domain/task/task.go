// Package task holds the scheduled-task aggregate for the weekly planner.
package task

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/felixgeelhaar/weekplan/internal/shared/domain"
	"github.com/google/uuid"
)

// MaxTitleLength is the longest accepted title, in runes.
const MaxTitleLength = 100

var (
	ErrEmptyTitle      = errors.New("task title cannot be empty")
	ErrTitleTooLong    = errors.New("task title exceeds 100 characters")
	ErrInvalidCategory = errors.New("unknown task category")
	ErrInvalidPosition = errors.New("task position cannot be negative")
)

// Category classifies a task on the dashboard.
type Category string

const (
	CategoryGeneral Category = "general"
	CategoryMeeting Category = "meeting"
	CategoryUrgent  Category = "urgent"
)

// ParseCategory validates a wire-format category. An empty string defaults
// to general.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case "":
		return CategoryGeneral, nil
	case CategoryGeneral, CategoryMeeting, CategoryUrgent:
		return Category(s), nil
	default:
		return "", ErrInvalidCategory
	}
}

func (c Category) String() string { return string(c) }

// Task is a unit of work scheduled on a calendar day. Position is its
// zero-based rank within that day's column.
type Task struct {
	domain.BaseAggregateRoot
	userID        uuid.UUID
	title         string
	description   string
	scheduledDate time.Time // midnight UTC
	position      int
	category      Category
	completedAt   *time.Time
}

// NewTask creates a task scheduled on the given date.
func NewTask(userID uuid.UUID, title, description string, scheduledDate time.Time, category Category) (*Task, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}
	if category == "" {
		category = CategoryGeneral
	}

	t := &Task{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		userID:            userID,
		title:             title,
		description:       strings.TrimSpace(description),
		scheduledDate:     midnight(scheduledDate),
		category:          category,
	}

	t.AddDomainEvent(NewTaskCreated(t.ID(), t.userID, t.title, t.scheduledDate))

	return t, nil
}

func (t *Task) UserID() uuid.UUID        { return t.userID }
func (t *Task) Title() string            { return t.title }
func (t *Task) Description() string      { return t.description }
func (t *Task) ScheduledDate() time.Time { return t.scheduledDate }
func (t *Task) Position() int            { return t.position }
func (t *Task) Category() Category       { return t.category }
func (t *Task) CompletedAt() *time.Time  { return t.completedAt }
func (t *Task) IsCompleted() bool        { return t.completedAt != nil }

// SetTitle updates the task title.
func (t *Task) SetTitle(title string) error {
	normalized, err := normalizeTitle(title)
	if err != nil {
		return err
	}
	t.title = normalized
	t.Touch()
	return nil
}

// SetDescription updates the task description.
func (t *Task) SetDescription(description string) {
	t.description = strings.TrimSpace(description)
	t.Touch()
}

// SetCategory updates the task category.
func (t *Task) SetCategory(category Category) error {
	if _, err := ParseCategory(category.String()); err != nil {
		return err
	}
	if category == "" {
		category = CategoryGeneral
	}
	t.category = category
	t.Touch()
	return nil
}

// Reschedule moves the task to another calendar day.
func (t *Task) Reschedule(date time.Time) {
	t.scheduledDate = midnight(date)
	t.Touch()
}

// SetPosition updates the task's rank within its day.
func (t *Task) SetPosition(position int) error {
	if position < 0 {
		return ErrInvalidPosition
	}
	t.position = position
	t.Touch()
	return nil
}

// Complete marks the task done, stamping completedAt. Completing an already
// completed task is idempotent.
func (t *Task) Complete() {
	if t.completedAt != nil {
		return
	}
	now := time.Now().UTC()
	t.completedAt = &now
	t.Touch()
	t.AddDomainEvent(NewTaskCompleted(t.ID(), t.userID))
}

// Reopen clears the completion stamp.
func (t *Task) Reopen() {
	if t.completedAt == nil {
		return
	}
	t.completedAt = nil
	t.Touch()
}

// Rehydrate reconstructs a task from persisted state without emitting events.
func Rehydrate(
	id, userID uuid.UUID,
	title, description string,
	scheduledDate time.Time,
	position int,
	category Category,
	completedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Task {
	return &Task{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(
			domain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		userID:        userID,
		title:         title,
		description:   description,
		scheduledDate: midnight(scheduledDate),
		position:      position,
		category:      category,
		completedAt:   completedAt,
	}
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
