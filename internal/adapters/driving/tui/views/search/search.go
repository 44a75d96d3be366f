// Package search provides the main search view for the TUI.
package search

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/mailbox"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driving"
	"github.com/custodia-labs/imgsearch/internal/pipe"
)

// View is the search screen: a query input, the image list and a status
// bar, all driven by a SearchPresenter.
//
// Every edit of the query is forwarded to the presenter, which debounces
// it. Presenter states arrive on other goroutines and reach the Bubbletea
// loop through a mailbox as messages.StateChanged.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	presenter driving.SearchPresenter
	states    *mailbox.Mailbox[domain.ViewState]
	sub       *pipe.Subscription

	state domain.ViewState
	// moreRequested is set from a next-page request until the presenter
	// reports it settled; sawLoading records that its loading row arrived.
	moreRequested bool
	sawLoading    bool
	width         int
	height        int
	ready         bool
	focusInput    bool
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, presenter driving.SearchPresenter) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		presenter:  presenter,
		states:     mailbox.New[domain.ViewState](),
		state:      domain.ViewDefault{},
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// Init starts presenting on first use and begins listening for states.
func (v *View) Init() tea.Cmd {
	if v.presenter == nil {
		return func() tea.Msg { return messages.ErrorOccurred{Err: ErrNoPresenter} }
	}
	if v.sub != nil {
		return v.input.Init()
	}

	v.sub = v.presenter.Start().Subscribe(v.states.Post)
	return tea.Batch(v.input.Init(), v.listen())
}

// listen waits for the next presenter state.
func (v *View) listen() tea.Cmd {
	states := v.states
	return func() tea.Msg {
		state, ok := states.Receive()
		if !ok {
			return nil
		}
		return messages.StateChanged{State: state}
	}
}

// Close stops the presenter and releases the listener.
func (v *View) Close() {
	if v.sub != nil {
		v.sub.Unsubscribe()
		v.sub = nil
	}
	if v.presenter != nil {
		v.presenter.Stop()
	}
	v.states.Close()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.StateChanged:
		v.applyState(msg.State)
		return v, v.listen()

	case messages.SettingsChanged:
		v.statusbar.SetMessage("settings reloaded")
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	_, cmd := v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if keymap.Matches(msg.String(), v.keymap.Back) {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if keymap.Matches(msg.String(), v.keymap.Browse) {
			if !v.list.IsEmpty() {
				v.browse()
			}
			return v, nil
		}
		changed, cmd := v.input.Update(msg)
		if changed {
			v.queryChanged()
		}
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(msg.String(), v.keymap.Down):
		v.list.MoveDown()
		v.maybeLoadMore()
	case keymap.Matches(msg.String(), v.keymap.NewSearch):
		return v, v.editQuery()
	}
	return v, nil
}

// queryChanged forwards the edited query to the presenter.
func (v *View) queryChanged() {
	if v.presenter != nil {
		v.presenter.QueryUpdated(v.input.Value())
	}
}

// maybeLoadMore asks for the next page once the last image is selected.
func (v *View) maybeLoadMore() {
	if v.presenter == nil || v.moreRequested || !v.list.AtEnd() || !v.list.MorePages() || v.list.Loading() {
		return
	}
	v.moreRequested = true
	v.sawLoading = false
	v.presenter.RequestMoreResults()
}

func (v *View) browse() {
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetHints(v.keymap.ResultsHelp())
}

func (v *View) editQuery() tea.Cmd {
	v.focusInput = true
	v.statusbar.SetHints(v.keymap.ShortHelp())
	return v.input.Focus()
}

// settleMoreRequest clears moreRequested once state shows the requested
// page arrived, failed, or was superseded.
func (v *View) settleMoreRequest(state domain.ViewState, previousImages int) {
	if !v.moreRequested {
		return
	}
	loadedState, ok := state.(domain.ViewLoaded)
	switch {
	case !ok, !loadedState.MorePages, v.list.ImageCount() != previousImages:
		v.moreRequested = false
	case v.list.Loading():
		v.sawLoading = true
	case v.sawLoading:
		v.moreRequested = false
	}
}

// applyState renders a presenter state.
func (v *View) applyState(state domain.ViewState) {
	v.state = state
	previousImages := v.list.ImageCount()
	defer v.settleMoreRequest(state, previousImages)

	switch s := state.(type) {
	case domain.ViewDefault:
		v.list.Clear()
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetResults(0, false)
	case domain.ViewLoading:
		v.statusbar.SetState(status.StateSearching)
	case domain.ViewNoResults:
		v.list.Clear()
		v.statusbar.SetState(status.StateNoResults)
		v.statusbar.SetResults(0, false)
	case domain.ViewFailure:
		v.list.Clear()
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(s.Err.Error())
		return
	case domain.ViewLoaded:
		v.list.SetItems(s.Items, s.MorePages)
		v.statusbar.SetState(status.StateResults)
		v.statusbar.SetResults(v.list.ImageCount(), s.MorePages)
	}

	if v.statusbar.State() != status.StateError {
		v.statusbar.SetMessage("")
	}
	if v.list.IsEmpty() && !v.focusInput {
		v.editQuery()
	}
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("imgsearch"),
		"",
		v.input.View(),
		"",
		v.list.View(),
		"",
		v.statusbar.View(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-9) // header, input box and status bar
	v.statusbar.SetWidth(width)
}

// SetQuery replaces the query and searches for it.
func (v *View) SetQuery(query string) tea.Cmd {
	v.input.SetValue(query)
	v.queryChanged()
	return v.editQuery()
}

// Query returns the current query text.
func (v *View) Query() string {
	return v.input.Value()
}

// State returns the last presenter state applied.
func (v *View) State() domain.ViewState {
	return v.state
}

// Items returns the rows currently listed.
func (v *View) Items() []domain.Item {
	return v.list.Items()
}

// SelectedIndex returns the index of the selected row.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// StatusState returns the status bar state.
func (v *View) StatusState() status.State {
	return v.statusbar.State()
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}

// InputFocused returns whether the query input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
