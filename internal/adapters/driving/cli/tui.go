package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive image search screen.

Results update as you type and the next page loads when you scroll to the
end of the list.

Controls:
  (type)   - Edit the query
  Enter    - Browse results
  ↑/k, ↓/j - Navigate results
  n, /     - Edit the query again
  Esc      - Menu
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if presenter == nil {
		return errNotConfigured
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Follow config edits while the TUI is open.
	if watchConfig != nil {
		go func() {
			if err := watchConfig(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "config watcher stopped: %v\n", err)
			}
		}()
	}

	app, err := tui.NewApp(&tui.Ports{
		Presenter: presenter,
		History:   historyService,
		Settings:  settingsUpdates,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
