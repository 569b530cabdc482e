// Package week computes the Monday-to-Sunday window shown on the dashboard.
package week

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

var dateTokenRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Day describes a single column of the week grid.
type Day struct {
	Date       time.Time
	Name       string // "MON", "TUE", ...
	DayOfMonth int
	IsToday    bool
	IsPast     bool
}

// Window is a Monday-start week span with per-day metadata.
type Window struct {
	Start time.Time // Monday, midnight UTC
	End   time.Time // Sunday, midnight UTC
	Days  []Day
	Label string // "Jan 20 - 26, 2025"
}

// Compute returns the window containing ref, evaluated against the current time.
func Compute(ref time.Time) Window {
	return ComputeAt(ref, time.Now())
}

// ComputeAt returns the window containing ref. The now argument determines
// the IsToday and IsPast flags and is injectable for testing.
func ComputeAt(ref, now time.Time) Window {
	start := startOfWeek(ref)
	end := start.AddDate(0, 0, 6)
	today := truncate(now)

	days := make([]Day, 0, 7)
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		days = append(days, Day{
			Date:       d,
			Name:       strings.ToUpper(d.Format("Mon")),
			DayOfMonth: d.Day(),
			IsToday:    d.Equal(today),
			IsPast:     d.Before(today),
		})
	}

	return Window{
		Start: start,
		End:   end,
		Days:  days,
		Label: label(start, end),
	}
}

// Next returns the date exactly one week forward.
func Next(d time.Time) time.Time { return d.AddDate(0, 0, 7) }

// Prev returns the date exactly one week back.
func Prev(d time.Time) time.Time { return d.AddDate(0, 0, -7) }

// Contains reports whether the given date falls inside the window.
func (w Window) Contains(d time.Time) bool {
	d = truncate(d)
	return !d.Before(w.Start) && !d.After(w.End)
}

// IsCurrent reports whether the window contains today, evaluated against now.
func (w Window) IsCurrent(now time.Time) bool {
	return w.Contains(now)
}

// FormatDate renders a date in the wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// ParseDate parses a wire-format date into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// IsDateToken reports whether s is shaped like a wire-format date. The drag
// controller uses it to tell day-container drop targets from task targets.
func IsDateToken(s string) bool {
	return dateTokenRe.MatchString(s)
}

// label renders the window header. Weeks spanning two months include the end
// month after the dash; the year is always the end date's year.
func label(start, end time.Time) string {
	if start.Month() == end.Month() {
		return fmt.Sprintf("%s - %d, %d", start.Format("Jan 2"), end.Day(), end.Year())
	}
	return fmt.Sprintf("%s - %s, %d", start.Format("Jan 2"), end.Format("Jan 2"), end.Year())
}

// startOfWeek returns the Monday of the week containing t, at midnight UTC.
func startOfWeek(t time.Time) time.Time {
	d := truncate(t)
	offset := int(d.Weekday())
	if offset == 0 { // Sunday
		offset = 7
	}
	return d.AddDate(0, 0, 1-offset)
}

// truncate drops the time-of-day component, keeping the calendar date in the
// value's own location and re-anchoring it to UTC.
func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
