package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/mailbox"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/pipe"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView    *menu.View
	searchView  *search.View
	historyView *history.View

	// settings forwards reloaded settings into the event loop.
	settings    *mailbox.Mailbox[domain.AppSettings]
	settingsSub *pipe.Subscription

	currentView messages.ViewType
	err         error
	width       int
	height      int
	ready       bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		menuView:    menu.NewView(s, km),
		searchView:  search.NewView(s, km, ports.Presenter),
		historyView: history.NewView(s, km, ports.History),
		settings:    mailbox.New[domain.AppSettings](),
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.historyView.WithContext(ctx)
	return a
}

// Init implements tea.Model. It opens on the search screen.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("imgsearch"),
		a.searchView.Init(),
	}
	if a.ports.Settings != nil && a.settingsSub == nil {
		a.settingsSub = a.ports.Settings.Subscribe(a.settings.Post)
		cmds = append(cmds, a.listenSettings())
	}
	return tea.Batch(cmds...)
}

func (a *App) listenSettings() tea.Cmd {
	settings := a.settings
	return func() tea.Msg {
		s, ok := settings.Receive()
		if !ok {
			return nil
		}
		return messages.SettingsChanged{Settings: s}
	}
}

// Close releases the search presenter and subscriptions.
func (a *App) Close() {
	if a.settingsSub != nil {
		a.settingsSub.Unsubscribe()
		a.settingsSub = nil
	}
	a.settings.Close()
	a.searchView.Close()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.forwardKey(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewSearch:
			return a, a.searchView.Init()
		case messages.ViewHistory:
			return a, a.historyView.Init()
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, nil

	case messages.StateChanged:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.SettingsChanged:
		a.searchView, _ = a.searchView.Update(msg)
		return a, a.listenSettings()

	case messages.HistoryLoaded, messages.HistoryCleared:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.HistorySelected:
		a.currentView = messages.ViewSearch
		return a, a.searchView.SetQuery(msg.Query)

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewSearch {
		a.searchView, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

func (a *App) forwardKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewHelp:
		if keymap.Matches(msg.String(), a.keymap.Back) {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return `Help

Search:
  (type)      Edit the query; results update as you type
  enter/tab   Browse results
  j/k, ↑/↓    Move through results; the next page loads at the end
  n, /        Edit the query again
  esc         Back to menu

Recent searches:
  enter       Search again
  r           Refresh
  c           Clear history

ctrl+c        Quit

[esc] back to menu`
}

// Run starts the TUI application and releases it on exit.
func (a *App) Run() error {
	defer a.Close()
	p := tea.NewProgram(a.WithContext(a.ctx), tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// SearchView returns the search screen.
func (a *App) SearchView() *search.View {
	return a.searchView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
}
