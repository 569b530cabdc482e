package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/weekplan/pkg/week"
)

var weekOffset int

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the week's tasks, one column per day",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}

		ref := time.Now().AddDate(0, 0, 7*weekOffset)
		w := week.Compute(ref)
		if err := a.Engine.Load(cmd.Context(), w); err != nil {
			return fmt.Errorf("failed to load week: %w", err)
		}

		fmt.Println(w.Label)
		for _, day := range w.Days {
			marker := " "
			if day.IsToday {
				marker = "*"
			}
			fmt.Printf("\n%s %s %d\n", marker, day.Name, day.DayOfMonth)

			tasks := a.Store.ForDay(week.FormatDate(day.Date))
			if len(tasks) == 0 {
				fmt.Println("    (no tasks)")
				continue
			}
			for _, t := range tasks {
				check := " "
				if t.IsCompleted {
					check = "x"
				}
				extra := ""
				if t.Category != "" && t.Category != "general" {
					extra = " [" + t.Category + "]"
				}
				fmt.Printf("    [%s] %s%s  (%s)\n", check, t.Title, extra, shortID(t.ID))
			}
		}

		total, done := 0, 0
		for _, t := range a.Store.Tasks() {
			total++
			if t.IsCompleted {
				done++
			}
		}
		fmt.Printf("\n%d tasks, %d done", total, done)
		if total > 0 {
			fmt.Printf(" (%d%%)", done*100/total)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	weekCmd.Flags().IntVarP(&weekOffset, "offset", "o", 0, "weeks relative to now (-1 = last week)")
	rootCmd.AddCommand(weekCmd)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveDate turns "today", "tomorrow", a weekday name, or a yyyy-MM-dd
// date into a wire-format date. Weekday names resolve within the current
// window.
func resolveDate(arg string) (string, error) {
	now := time.Now()
	switch strings.ToLower(arg) {
	case "", "today":
		return week.FormatDate(now), nil
	case "tomorrow":
		return week.FormatDate(now.AddDate(0, 0, 1)), nil
	}

	w := week.Compute(now)
	for _, day := range w.Days {
		if strings.EqualFold(day.Name, arg) || strings.EqualFold(day.Date.Format("Monday"), arg) {
			return week.FormatDate(day.Date), nil
		}
	}

	if week.IsDateToken(arg) {
		if _, err := week.ParseDate(arg); err == nil {
			return arg, nil
		}
	}
	return "", fmt.Errorf("cannot parse date %q: use today, tomorrow, a weekday, or yyyy-MM-dd", arg)
}

// loadDay fetches the window containing the given date so day-scoped
// commands see current positions.
func loadDay(cmd *cobra.Command, a *App, date string) error {
	d, err := week.ParseDate(date)
	if err != nil {
		return err
	}
	return a.Engine.Load(cmd.Context(), week.Compute(d))
}
