package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/weekplan/internal/dashboard/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive week dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runDashboard(cmd *cobra.Command) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	program := tea.NewProgram(tui.New(a.Engine), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard crashed: %w", err)
	}
	return nil
}
