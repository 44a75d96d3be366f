package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// apiKeySetting is prompted for when set without a value.
const apiKeySetting = "flickr.api_key"

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change imgsearch settings.

Settings are stored in config.toml in the config directory. Edits made while
the TUI is running are picked up automatically.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY [VALUE]",
	Short: "Change a setting",
	Long: `Change a single setting. Run 'imgsearch settings keys' for the list.

When VALUE is omitted for flickr.api_key it is read from stdin without echo.

Examples:
  imgsearch settings set flickr.api_key
  imgsearch settings set flickr.safe_search moderate
  imgsearch settings set search.debounce_ms 300`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		cmd.Println(settingsService.Path())
		return nil
	},
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the setting keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		for _, key := range settingsService.Keys() {
			cmd.Println(key)
		}
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Flickr]")
	if settings.Flickr.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Flickr.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	cmd.Printf("  Base URL: %s\n", settings.Flickr.BaseURL)
	cmd.Printf("  Safe Search: %s\n", settings.Flickr.SafeSearch)
	cmd.Printf("  Timeout: %s\n", settings.Flickr.Timeout())
	cmd.Printf("  Requests/Second: %g\n", settings.Flickr.RequestsPerSecond)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Debounce: %s\n", settings.Search.Debounce())
	cmd.Printf("  Max Pages: %d\n", settings.Search.MaxPages)
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Enabled: %s\n", yesNo(settings.Cache.Enabled))
	cmd.Printf("  TTL: %s\n", settings.Cache.TTL())
	cmd.Println()

	cmd.Println("[History]")
	cmd.Printf("  Enabled: %s\n", yesNo(settings.History.Enabled))
	cmd.Printf("  Limit: %d\n", settings.History.Limit)
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'imgsearch settings set flickr.api_key' to configure search.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case key == apiKeySetting:
		cmd.Print("Flickr API key: ")
		value = readSecret(cmd)
		cmd.Println()
	default:
		return fmt.Errorf("a value is required for %s", key)
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s.\n", key)
	return nil
}

// readSecret reads a line from cmd's input without echo when it is a
// terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readSecret(cmd *cobra.Command) string {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	input, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
