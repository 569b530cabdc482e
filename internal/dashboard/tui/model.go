// Package tui renders the week grid dashboard in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/weekplan/internal/dashboard/drag"
	"github.com/felixgeelhaar/weekplan/internal/dashboard/store"
	"github.com/felixgeelhaar/weekplan/internal/dashboard/sync"
	"github.com/felixgeelhaar/weekplan/pkg/week"
)

// ViewMode represents the current input mode
type ViewMode int

const (
	ModeNormal ViewMode = iota
	ModeInsert          // adding a task
	ModeEdit            // editing a title
	ModeHelp
)

// Messages
type weekLoadedMsg struct {
	err error
}

type opDoneMsg struct {
	action string
	err    error
}

// Model is the root bubbletea model for the dashboard.
type Model struct {
	engine *sync.Engine
	drag   *drag.Controller
	window week.Window
	keys   KeyMap
	input  textinput.Model

	mode    ViewMode
	dayIdx  int
	taskIdx int
	editID  string
	status  string

	width  int
	height int
}

// New creates the dashboard model around a sync engine.
func New(engine *sync.Engine) Model {
	input := textinput.New()
	input.CharLimit = sync.MaxTitleLength
	input.Placeholder = "task title"

	now := time.Now()
	w := week.Compute(now)

	m := Model{
		engine: engine,
		drag:   drag.NewController(engine.Store(), engine),
		window: w,
		keys:   DefaultKeyMap(),
		input:  input,
	}
	for i, d := range w.Days {
		if d.IsToday {
			m.dayIdx = i
		}
	}
	return m
}

// Init triggers the initial week load.
func (m Model) Init() tea.Cmd {
	return m.loadWeek()
}

func (m Model) loadWeek() tea.Cmd {
	w := m.window
	return func() tea.Msg {
		return weekLoadedMsg{err: m.engine.Load(context.Background(), w)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case weekLoadedMsg:
		if msg.err != nil {
			m.status = "load failed: " + msg.err.Error()
		} else {
			m.status = ""
		}
		m.clampCursor()
		return m, nil

	case opDoneMsg:
		if msg.err != nil {
			m.status = msg.action + " failed: " + msg.err.Error()
		} else {
			m.status = ""
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeInsert, ModeEdit:
			return m.updateInput(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, keys.Escape):
		if m.drag.State() == drag.Dragging {
			m.drag.Cancel()
			m.status = ""
		}
		return m, nil

	case key.Matches(msg, keys.Left):
		if m.dayIdx > 0 {
			m.dayIdx--
			m.clampCursor()
		}
		return m, nil

	case key.Matches(msg, keys.Right):
		if m.dayIdx < len(m.window.Days)-1 {
			m.dayIdx++
			m.clampCursor()
		}
		return m, nil

	case key.Matches(msg, keys.Up):
		if m.taskIdx > 0 {
			m.taskIdx--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.taskIdx < len(m.currentDayTasks())-1 {
			m.taskIdx++
		}
		return m, nil

	case key.Matches(msg, keys.PrevWeek):
		m.window = week.Compute(week.Prev(m.window.Start))
		return m, m.loadWeek()

	case key.Matches(msg, keys.NextWeek):
		m.window = week.Compute(week.Next(m.window.Start))
		return m, m.loadWeek()

	case key.Matches(msg, keys.Today):
		m.window = week.Compute(time.Now())
		return m, m.loadWeek()

	case key.Matches(msg, keys.Refresh):
		return m, m.loadWeek()

	case key.Matches(msg, keys.Add):
		m.mode = ModeInsert
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Edit):
		if t, ok := m.currentTask(); ok {
			m.mode = ModeEdit
			m.editID = t.ID
			m.input.SetValue(t.Title)
			m.input.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case key.Matches(msg, keys.Toggle):
		if t, ok := m.currentTask(); ok {
			return m, m.runOp("toggle", func(ctx context.Context) error {
				_, err := m.engine.Complete(ctx, t.ID, !t.IsCompleted)
				return err
			})
		}
		return m, nil

	case key.Matches(msg, keys.Delete):
		if t, ok := m.currentTask(); ok {
			return m, m.runOp("delete", func(ctx context.Context) error {
				return m.engine.Delete(ctx, t.ID)
			})
		}
		return m, nil

	case key.Matches(msg, keys.Grab):
		if t, ok := m.currentTask(); ok && m.drag.Start(t.ID) {
			m.status = "dragging " + t.Title + " (enter to drop, esc to cancel)"
		}
		return m, nil

	case key.Matches(msg, keys.Drop):
		if m.drag.State() != drag.Dragging {
			return m, nil
		}
		target := m.dropTarget()
		m.status = ""
		return m, func() tea.Msg {
			return opDoneMsg{action: "move", err: m.drag.Drop(context.Background(), target)}
		}
	}
	return m, nil
}

// dropTarget resolves the current cursor to a drop token: the task under
// the cursor when there is one, otherwise the focused day container.
func (m Model) dropTarget() string {
	date := week.FormatDate(m.window.Days[m.dayIdx].Date)
	tasks := m.currentDayTasks()

	var taskHit string
	if m.taskIdx < len(tasks) && tasks[m.taskIdx].ID != m.drag.Active().ID {
		taskHit = tasks[m.taskIdx].ID
	}
	return drag.ResolveTarget(taskHit, date)
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		title := strings.TrimSpace(m.input.Value())
		mode := m.mode
		editID := m.editID
		m.mode = ModeNormal
		m.input.Blur()
		if title == "" {
			return m, nil
		}

		if mode == ModeEdit {
			return m, m.runOp("edit", func(ctx context.Context) error {
				_, err := m.engine.Edit(ctx, editID, store.TaskPatch{Title: &title})
				return err
			})
		}

		date := week.FormatDate(m.window.Days[m.dayIdx].Date)
		return m, m.runOp("create", func(ctx context.Context) error {
			_, err := m.engine.Create(ctx, sync.CreateInput{
				Title:         title,
				ScheduledDate: date,
				Category:      "general",
			})
			return err
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) runOp(action string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{action: action, err: fn(context.Background())}
	}
}

func (m Model) currentDayTasks() []store.Task {
	date := week.FormatDate(m.window.Days[m.dayIdx].Date)
	return m.engine.Store().ForDay(date)
}

func (m Model) currentTask() (store.Task, bool) {
	tasks := m.currentDayTasks()
	if m.taskIdx < 0 || m.taskIdx >= len(tasks) {
		return store.Task{}, false
	}
	return tasks[m.taskIdx], true
}

func (m *Model) clampCursor() {
	n := len(m.currentDayTasks())
	if m.taskIdx >= n {
		m.taskIdx = n - 1
	}
	if m.taskIdx < 0 {
		m.taskIdx = 0
	}
}

// View renders the week grid.
func (m Model) View() string {
	if m.mode == ModeHelp {
		return m.helpView()
	}

	var b strings.Builder
	b.WriteString(WeekLabelStyle.Render(m.window.Label))
	if m.engine.Store().Loading() {
		b.WriteString(StatusStyle.Render(" loading..."))
	}
	b.WriteString("\n")

	colWidth := 18
	if m.width > 0 {
		if w := m.width/7 - 2; w > 12 {
			colWidth = w
		}
	}

	columns := make([]string, 0, len(m.window.Days))
	for i, day := range m.window.Days {
		columns = append(columns, m.renderDay(i, day, colWidth))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	b.WriteString("\n")

	b.WriteString(m.statsLine())
	b.WriteString("\n")

	switch {
	case m.mode == ModeInsert:
		b.WriteString(StatusStyle.Render("new task: ") + m.input.View())
	case m.mode == ModeEdit:
		b.WriteString(StatusStyle.Render("edit title: ") + m.input.View())
	case m.status != "":
		b.WriteString(ErrorStyle.Render(m.status))
	default:
		b.WriteString(HelpStyle.Render("a add · space done · g grab · enter drop · [ ] weeks · ? help · q quit"))
	}
	return b.String()
}

func (m Model) renderDay(idx int, day week.Day, width int) string {
	header := fmt.Sprintf("%s %d", day.Name, day.DayOfMonth)
	headerStyle := DayHeaderStyle
	switch {
	case day.IsToday:
		headerStyle = DayHeaderTodayStyle
	case day.IsPast:
		headerStyle = DayHeaderPastStyle
	}

	lines := []string{headerStyle.Render(header)}
	date := week.FormatDate(day.Date)
	for i, t := range m.engine.Store().ForDay(date) {
		lines = append(lines, m.renderTask(t, idx == m.dayIdx && i == m.taskIdx, width))
	}

	col := DayColumnStyle
	if idx == m.dayIdx {
		col = DayColumnFocusStyle
	}
	return col.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderTask(t store.Task, focused bool, width int) string {
	marker := "·"
	if t.IsCompleted {
		marker = "✓"
	}
	if m.drag.State() == drag.Dragging && m.drag.Active().ID == t.ID {
		marker = "✥"
	}

	title := t.Title
	if maxLen := width - 4; maxLen > 0 {
		if runes := []rune(title); len(runes) > maxLen {
			title = string(runes[:maxLen-1]) + "…"
		}
	}
	line := marker + " " + title

	switch {
	case m.drag.State() == drag.Dragging && m.drag.Active().ID == t.ID:
		return TaskGrabbedStyle.Render(line)
	case focused:
		return TaskCursorStyle.Render(line)
	case t.IsCompleted:
		return TaskDoneStyle.Render(line)
	case t.Category == "urgent":
		return CategoryUrgentStyle.Render(line)
	case t.Category == "meeting":
		return CategoryMeetingStyle.Render(line)
	default:
		return TaskStyle.Render(line)
	}
}

func (m Model) statsLine() string {
	tasks := m.engine.Store().Tasks()
	done := 0
	for _, t := range tasks {
		if t.IsCompleted {
			done++
		}
	}
	rate := 0
	if len(tasks) > 0 {
		rate = done * 100 / len(tasks)
	}
	return StatsStyle.Render(fmt.Sprintf("%d tasks · %d done · %d%%", len(tasks), done, rate))
}

func (m Model) helpView() string {
	bindings := []key.Binding{
		m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right,
		m.keys.PrevWeek, m.keys.NextWeek, m.keys.Today,
		m.keys.Add, m.keys.Edit, m.keys.Toggle, m.keys.Delete,
		m.keys.Grab, m.keys.Drop, m.keys.Refresh, m.keys.Quit,
	}

	var b strings.Builder
	b.WriteString(WeekLabelStyle.Render("weekplan keys"))
	b.WriteString("\n\n")
	for _, binding := range bindings {
		h := binding.Help()
		b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("press any key to close"))
	return b.String()
}
