package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/messages"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	view := NewView(nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.keymap)
	assert.Len(t, view.items, 4)
	assert.Equal(t, 0, view.Selected())
	assert.Nil(t, view.Init())
}

func TestView_WindowSize(t *testing.T) {
	view := NewView(nil, nil)
	assert.Equal(t, "Initialising...", view.View())

	_, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 100, view.width)
}

func TestView_Navigate(t *testing.T) {
	view := NewView(nil, nil)

	view.Update(keyRunes("k"))
	assert.Equal(t, 0, view.Selected())

	view.Update(keyRunes("j"))
	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, view.Selected())

	for range 5 {
		view.Update(keyRunes("j"))
	}
	assert.Equal(t, 3, view.Selected())

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, view.Selected())
}

func TestView_Select(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want messages.ViewType
	}{
		{"enter on first item", []tea.KeyMsg{{Type: tea.KeyEnter}}, messages.ViewSearch},
		{"enter on history", []tea.KeyMsg{keyRunes("j"), {Type: tea.KeyEnter}}, messages.ViewHistory},
		{"hotkey s", []tea.KeyMsg{keyRunes("s")}, messages.ViewSearch},
		{"hotkey h", []tea.KeyMsg{keyRunes("h")}, messages.ViewHistory},
		{"hotkey ?", []tea.KeyMsg{keyRunes("?")}, messages.ViewHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewView(nil, nil)

			var cmd tea.Cmd
			for _, k := range tt.keys {
				_, cmd = view.Update(k)
			}

			require.NotNil(t, cmd)
			assert.Equal(t, messages.ViewChanged{View: tt.want}, cmd())
		})
	}
}

func TestView_Quit(t *testing.T) {
	view := NewView(nil, nil)

	_, cmd := view.Update(keyRunes("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView_Render(t *testing.T) {
	view := NewView(nil, nil)
	view.SetDimensions(80, 24)

	out := view.View()

	assert.Contains(t, out, "imgsearch")
	assert.Contains(t, out, "[s] Search images")
	assert.Contains(t, out, "[h] Recent searches")
	assert.Contains(t, out, "[q] Quit")
}
