package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/weekplan/internal/dashboard/store"
	"github.com/felixgeelhaar/weekplan/internal/dashboard/sync"
)

var (
	addDate        string
	addCategory    string
	addDescription string
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to a day",
	Long: `Add a task to a day.

Examples:
  weekplan add "Buy groceries"
  weekplan add "Team standup" --on monday --category meeting
  weekplan add "File taxes" --on 2025-04-14 --category urgent`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}

		date, err := resolveDate(addDate)
		if err != nil {
			return err
		}

		created, err := a.Engine.Create(cmd.Context(), sync.CreateInput{
			Title:         strings.Join(args, " "),
			Description:   addDescription,
			ScheduledDate: date,
			Category:      addCategory,
		})
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		fmt.Println("Task created!")
		fmt.Printf("  Title: %s\n", created.Title)
		fmt.Printf("  Day:   %s\n", created.ScheduledDate)
		fmt.Printf("  ID:    %s\n", shortID(created.ID))
		return nil
	},
}

var editTitle string

var editCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Edit a task's title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		id, err := findTask(cmd, a, args[0])
		if err != nil {
			return err
		}

		updated, err := a.Engine.Edit(cmd.Context(), id, store.TaskPatch{Title: &editTitle})
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		fmt.Printf("Updated: %s\n", updated.Title)
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		id, err := findTask(cmd, a, args[0])
		if err != nil {
			return err
		}

		updated, err := a.Engine.Complete(cmd.Context(), id, true)
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
		fmt.Printf("Done: %s\n", updated.Title)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		id, err := findTask(cmd, a, args[0])
		if err != nil {
			return err
		}

		if err := a.Engine.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		fmt.Println("Deleted.")
		return nil
	},
}

var movePosition int

var moveCmd = &cobra.Command{
	Use:   "move <task-id> <day>",
	Short: "Move a task to another day",
	Long: `Move a task to another day, appending it to the end of that day
unless --position is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		id, err := findTask(cmd, a, args[0])
		if err != nil {
			return err
		}
		date, err := resolveDate(args[1])
		if err != nil {
			return err
		}

		pos := movePosition
		if pos < 0 {
			pos = len(a.Store.ForDay(date))
		}
		if err := a.Engine.MoveToDay(cmd.Context(), id, date, pos); err != nil {
			return fmt.Errorf("failed to move task: %w", err)
		}
		fmt.Printf("Moved to %s.\n", date)
		return nil
	},
}

var reorderCmd = &cobra.Command{
	Use:   "reorder <day> <task-id>...",
	Short: "Reorder a day's tasks into the given sequence",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		date, err := resolveDate(args[0])
		if err != nil {
			return err
		}
		if err := loadDay(cmd, a, date); err != nil {
			return err
		}

		ids := make([]string, 0, len(args)-1)
		for _, ref := range args[1:] {
			id, err := matchTask(a, ref)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		if err := a.Engine.ReorderWithinDay(cmd.Context(), date, ids); err != nil {
			return fmt.Errorf("failed to reorder: %w", err)
		}
		fmt.Println("Reordered.")
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDate, "on", "today", "day: today, tomorrow, a weekday, or yyyy-MM-dd")
	addCmd.Flags().StringVar(&addCategory, "category", "general", "category: general, meeting, urgent")
	addCmd.Flags().StringVar(&addDescription, "description", "", "optional description")
	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	_ = editCmd.MarkFlagRequired("title")
	moveCmd.Flags().IntVar(&movePosition, "position", -1, "index in the target day (default: append)")

	rootCmd.AddCommand(addCmd, editCmd, doneCmd, rmCmd, moveCmd, reorderCmd)
}

// findTask loads the current week and resolves a task-id prefix against it.
func findTask(cmd *cobra.Command, a *App, ref string) (string, error) {
	if len(a.Store.Tasks()) == 0 {
		date, _ := resolveDate("today")
		if err := loadDay(cmd, a, date); err != nil {
			return "", err
		}
	}
	return matchTask(a, ref)
}

// matchTask resolves a full id or unambiguous prefix against loaded tasks.
func matchTask(a *App, ref string) (string, error) {
	var matches []string
	for _, t := range a.Store.Tasks() {
		if t.ID == ref {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no task matches %q in the loaded week", ref)
	default:
		return "", fmt.Errorf("%q is ambiguous: %d tasks match", ref, len(matches))
	}
}
