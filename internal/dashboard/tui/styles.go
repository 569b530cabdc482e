package tui

import "github.com/charmbracelet/lipgloss"

// One Dark Pro color palette
var (
	ColorBgHighlight = lipgloss.Color("#2C313C")

	ColorFgPrimary   = lipgloss.Color("#ABB2BF")
	ColorFgSecondary = lipgloss.Color("#828997")
	ColorFgMuted     = lipgloss.Color("#5C6370")

	ColorRed     = lipgloss.Color("#E06C75")
	ColorGreen   = lipgloss.Color("#98C379")
	ColorYellow  = lipgloss.Color("#E5C07B")
	ColorBlue    = lipgloss.Color("#61AFEF")
	ColorMagenta = lipgloss.Color("#C678DD")
	ColorCyan    = lipgloss.Color("#56B6C2")

	ColorBorder = lipgloss.Color("#3F4451")
)

// Component styles
var (
	WeekLabelStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true).
			PaddingLeft(1)

	DayColumnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	DayColumnFocusStyle = DayColumnStyle.
				BorderForeground(ColorBlue)

	DayHeaderStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary).
			Bold(true)

	DayHeaderTodayStyle = DayHeaderStyle.
				Foreground(ColorGreen)

	DayHeaderPastStyle = lipgloss.NewStyle().
				Foreground(ColorFgMuted)

	TaskStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	TaskCursorStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary).
			Background(ColorBgHighlight).
			Bold(true)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			Strikethrough(true)

	TaskGrabbedStyle = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Bold(true)

	CategoryMeetingStyle = lipgloss.NewStyle().Foreground(ColorCyan)
	CategoryUrgentStyle  = lipgloss.NewStyle().Foreground(ColorRed)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorFgSecondary).
			PaddingLeft(1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			PaddingLeft(1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			PaddingLeft(1)

	StatsStyle = lipgloss.NewStyle().
			Foreground(ColorFgSecondary).
			PaddingLeft(1)
)
