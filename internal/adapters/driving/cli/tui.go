package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the full-screen search interface over the narrative index.

Controls:
  Enter    - Search / open narrative
  ↑/k, ↓/j - Navigate results
  n, /     - New search
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	Args:        cobra.NoArgs,
	RunE:        runTUI,
	Annotations: needsServices(true),
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("panic in TUI: %v", r)
		}
	}()

	app, err := tui.NewApp(&tui.Ports{
		Search: services.Search,
		Index:  services.Index,
		Limit:  appSettings.TopK,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx := cmd.Context()
	if err := app.WithContext(ctx).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
