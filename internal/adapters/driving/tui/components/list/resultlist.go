// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/imgsearch/internal/core/domain"
)

// loadingLabel is rendered for the trailing loading row.
const loadingLabel = "Loading more..."

// ResultList displays the rows of a loaded search in a navigable list.
type ResultList struct {
	items     []domain.Item
	morePages bool
	selected  int
	styles    *styles.Styles
	width     int
	height    int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.items) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.items)+2)

	header := fmt.Sprintf("Images (%d)", r.ImageCount())
	if r.morePages {
		header += " +"
	}
	lines = append(lines, r.styles.Subtitle.Render(header), "")

	visible := r.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.items))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderItem(i, r.items[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *ResultList) renderItem(index int, item domain.Item) string {
	if item.Kind == domain.ItemLoading {
		return r.styles.Muted.Render("  " + loadingLabel)
	}

	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	url := item.Image.URL
	maxLen := max(r.width-10, 10)
	if len(url) > maxLen {
		url = url[:maxLen-3] + "..."
	}

	number := fmt.Sprintf("%4d  ", index+1)
	if index == r.selected {
		return r.styles.Selected.Render(indicator + number + url)
	}
	return indicator + r.styles.Muted.Render(number) + r.styles.URL.Render(url)
}

// SetItems replaces the rows. The selection is kept when the new rows
// extend the old ones, as happens when a further page arrives.
func (r *ResultList) SetItems(items []domain.Item, morePages bool) {
	r.items = items
	r.morePages = morePages
	if r.selected >= len(items) {
		r.selected = max(len(items)-1, 0)
	}
}

// Clear removes every row and resets the selection.
func (r *ResultList) Clear() {
	r.items = nil
	r.morePages = false
	r.selected = 0
}

// Items returns the current rows.
func (r *ResultList) Items() []domain.Item {
	return r.items
}

// ImageCount returns the number of image rows.
func (r *ResultList) ImageCount() int {
	n := 0
	for _, item := range r.items {
		if item.Kind == domain.ItemImage {
			n++
		}
	}
	return n
}

// Loading reports whether the list ends with the loading row.
func (r *ResultList) Loading() bool {
	return len(r.items) > 0 && r.items[len(r.items)-1].Kind == domain.ItemLoading
}

// MorePages reports whether more pages can be requested.
func (r *ResultList) MorePages() bool {
	return r.morePages
}

// AtEnd reports whether the last image row is selected.
func (r *ResultList) AtEnd() bool {
	return r.ImageCount() > 0 && r.selected >= r.ImageCount()-1
}

// Selected returns the index of the selected row.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedImage returns the selected image, or nil when no image row is
// selected.
func (r *ResultList) SelectedImage() *domain.Image {
	if r.selected < 0 || r.selected >= len(r.items) || r.items[r.selected].Kind != domain.ItemImage {
		return nil
	}
	img := r.items[r.selected].Image
	return &img
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down. The loading row cannot be selected.
func (r *ResultList) MoveDown() {
	if r.selected < r.ImageCount()-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.items) == 0
}
