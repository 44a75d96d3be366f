package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
)

var (
	searchPages   int
	searchJSON    bool
	searchTimeout time.Duration
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search Flickr for images",
	Long: `Searches Flickr and prints the URLs of the matching images.

Collects up to --pages pages (default: search.max_pages from settings) and
stops early when Flickr reports no more pages.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchPages, "pages", "p", 0, "number of pages to collect (0 = settings)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 30*time.Second, "give up after this long (0 = never)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if collector == nil {
		return errNotConfigured
	}

	pages := searchPages
	if pages <= 0 {
		pages = configuredMaxPages()
	}

	ctx := cmd.Context()
	if searchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, searchTimeout)
		defer cancel()
	}

	collection, err := collector.Collect(ctx, args[0], pages)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, collection)
	}
	outputSearchTable(cmd, collection)
	return nil
}

func configuredMaxPages() int {
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Search.MaxPages > 0 {
			return settings.Search.MaxPages
		}
	}
	return domain.DefaultAppSettings().Search.MaxPages
}

func outputSearchJSON(cmd *cobra.Command, collection *domain.Collection) error {
	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, collection *domain.Collection) {
	if len(collection.Images) == 0 {
		cmd.Println("No images found.")
		return
	}

	cmd.Printf("Images for %q (%d from %d page(s)):\n", collection.Query, len(collection.Images), collection.Pages)
	cmd.Println()

	width := terminalWidth(cmd)
	for i, image := range collection.Images {
		prefix := fmt.Sprintf("  [%d] ", i+1)
		cmd.Println(prefix + truncate(image.URL, width-len(prefix)))
	}

	if collection.MorePages {
		cmd.Println()
		cmd.Println("More images available; use --pages to collect more.")
	}
}

// terminalWidth returns the width of cmd's output, or 0 when it is not a
// terminal.
func terminalWidth(cmd *cobra.Command) int {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// truncate shortens s to width runes. A non-positive width disables it.
func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
