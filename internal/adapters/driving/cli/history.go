package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches",
	Long: `Lists recent searches, newest first. A search is recorded when its
first page loads.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the search history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum number of entries (0 = settings)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output history as JSON")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	entries, err := historyService.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if historyJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputHistoryTable(cmd, entries)
	return nil
}

func outputHistoryTable(cmd *cobra.Command, entries []domain.HistoryEntry) {
	if len(entries) == 0 {
		cmd.Println("No searches yet.")
		return
	}

	cmd.Println("Recent searches:")
	cmd.Println()
	for i := range entries {
		e := &entries[i]
		cmd.Printf("  %-30s %4d images  %6d pages  %s\n",
			truncate(e.Query, 30), e.ResultCount, e.TotalPages, e.SearchedAt.Local().Format("2006-01-02 15:04"))
	}
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	if err := historyService.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	cmd.Println("Search history cleared.")
	return nil
}
