// Package history provides the recent searches view for the TUI.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driving"
)

// View lists recent searches; choosing one searches it again.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.HistoryService
	ctx     context.Context
	now     func() time.Time

	entries  []domain.HistoryEntry
	selected int
	loading  bool
	err      error
	width    int
	height   int
}

// NewView creates a history view. A nil service shows an empty history.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:  s,
		keymap:  km,
		service: service,
		ctx:     context.Background(),
		now:     time.Now,
		width:   80,
		height:  24,
	}
}

// WithContext sets the context used for loading.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the history.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	if v.service == nil {
		return nil
	}
	v.loading = true
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		entries, err := service.Recent(ctx, 0)
		return messages.HistoryLoaded{Entries: entries, Err: err}
	}
}

func (v *View) clear() tea.Cmd {
	if v.service == nil {
		return nil
	}
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		return messages.HistoryCleared{Err: service.Clear(ctx)}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.HistoryLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.entries = msg.Entries
			v.selected = min(v.selected, max(len(v.entries)-1, 0))
		}
		return v, nil

	case messages.HistoryCleared:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.selected = 0
		return v, v.load()

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.entries)-1 {
			v.selected++
		}
	case keymap.Matches(k, v.keymap.Select):
		if entry := v.Selected(); entry != nil {
			query := entry.Query
			return v, func() tea.Msg { return messages.HistorySelected{Query: query} }
		}
	case keymap.Matches(k, v.keymap.Refresh):
		return v, v.load()
	case keymap.Matches(k, v.keymap.Clear):
		return v, v.clear()
	}
	return v, nil
}

// View renders the history list.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Recent searches"))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.loading && len(v.entries) == 0:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case len(v.entries) == 0:
		b.WriteString(v.styles.Muted.Render("No searches yet"))
	default:
		for i, entry := range v.entries {
			b.WriteString(v.renderEntry(i, entry))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	hints := make([]string, 0, 4)
	for _, binding := range v.keymap.HistoryHelp() {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	b.WriteString(v.styles.Help.Render(strings.Join(hints, "  ")))
	return b.String()
}

func (v *View) renderEntry(index int, entry domain.HistoryEntry) string {
	cursor := "  "
	line := fmt.Sprintf("%-30s %5d images  %s", entry.Query, entry.ResultCount, ago(v.now().Sub(entry.SearchedAt)))
	if index == v.selected {
		cursor = "> "
		return cursor + v.styles.Selected.Render(line)
	}
	return cursor + v.styles.Normal.Render(line)
}

// ago formats an elapsed duration coarsely.
func ago(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Entries returns the listed entries.
func (v *View) Entries() []domain.HistoryEntry {
	return v.entries
}

// Selected returns the selected entry, or nil when the list is empty.
func (v *View) Selected() *domain.HistoryEntry {
	if v.selected < 0 || v.selected >= len(v.entries) {
		return nil
	}
	return &v.entries[v.selected]
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
