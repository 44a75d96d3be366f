// Package cli provides the imgsearch command line interface.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driving"
	"github.com/custodia-labs/imgsearch/internal/logger"
	"github.com/custodia-labs/imgsearch/internal/pipe"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services holds the driving ports used by the commands.
type Services struct {
	// Collector runs headless searches. Nil when no API key is configured.
	Collector driving.ImageCollector

	// Presenter drives the TUI search screen. Nil when no API key is configured.
	Presenter driving.SearchPresenter

	History  driving.HistoryService
	Settings driving.SettingsService

	// SettingsUpdates publishes settings after config reloads.
	SettingsUpdates pipe.Pipe[domain.AppSettings]

	// Watch follows the config file until ctx is cancelled.
	Watch func(ctx context.Context) error
}

// Bootstrap builds the services for a config directory. An empty
// directory selects the default. The returned func releases them.
type Bootstrap func(configDir string) (*Services, func(), error)

// Service instances set by main or by Bootstrap.
var (
	collector       driving.ImageCollector
	presenter       driving.SearchPresenter
	historyService  driving.HistoryService
	settingsService driving.SettingsService
	settingsUpdates pipe.Pipe[domain.AppSettings]
	watchConfig     func(ctx context.Context) error
)

var (
	bootstrap Bootstrap
	release   func()

	verbose   bool
	configDir string
)

// errNotConfigured is returned by commands that need a Flickr API key.
var errNotConfigured = errors.New(
	"image search not configured: run 'imgsearch settings set flickr.api_key KEY' or set " +
		"IMGSEARCH_FLICKR_API_KEY")

// skipServices marks commands that run without services.
const skipServices = "skip-services"

var rootCmd = &cobra.Command{
	Use:   "imgsearch",
	Short: "Search Flickr images from the terminal",
	Long: `imgsearch searches Flickr for images.

Run 'imgsearch tui' for the interactive search screen, which updates as you
type and loads further pages as you scroll. 'imgsearch search' collects
results for scripts, and 'imgsearch mcp serve' exposes search to AI
assistants.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { teardown() },
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.imgsearch)")
}

// SetServices sets the services used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	collector = s.Collector
	presenter = s.Presenter
	historyService = s.History
	settingsService = s.Settings
	settingsUpdates = s.SettingsUpdates
	watchConfig = s.Watch
}

// SetBootstrap sets the function that builds services before a command runs.
// It is only called when SetServices has not configured settings.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Execute runs the root command.
func Execute() error {
	defer teardown()
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[skipServices] == "true" || bootstrap == nil || settingsService != nil {
		return nil
	}

	services, cleanup, err := bootstrap(configDir)
	if err != nil {
		return err
	}
	SetServices(services)
	release = cleanup
	return nil
}

func teardown() {
	if release != nil {
		release()
		release = nil
	}
}
