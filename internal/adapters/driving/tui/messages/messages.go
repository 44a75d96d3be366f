// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/imgsearch/internal/core/domain"
)

// StateChanged carries the newest search screen state from the presenter.
type StateChanged struct {
	State domain.ViewState
}

// SettingsChanged is sent when the configuration file was reloaded.
type SettingsChanged struct {
	Settings domain.AppSettings
}

// HistoryLoaded carries recent searches.
type HistoryLoaded struct {
	Entries []domain.HistoryEntry
	Err     error
}

// HistoryCleared signals the history was emptied.
type HistoryCleared struct {
	Err error
}

// HistorySelected is sent when a past query is chosen to search again.
type HistorySelected struct {
	Query string
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewHistory lists recent searches.
	ViewHistory
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewHistory:
		return "history"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
