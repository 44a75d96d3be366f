package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/imgsearch/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
	assert.Nil(t, bar.Init())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_UpdateIsPassive(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*Bar)
		want    string
		notWant string
	}{
		{"ready", func(*Bar) {}, "Ready", ""},
		{"searching", func(b *Bar) { b.SetState(StateSearching) }, "Searching...", "Ready"},
		{"results", func(b *Bar) {
			b.SetState(StateResults)
			b.SetResults(42, false)
		}, "42 images", "more available"},
		{"more results", func(b *Bar) {
			b.SetState(StateResults)
			b.SetResults(100, true)
		}, "100 images, more available", ""},
		{"no results", func(b *Bar) { b.SetState(StateNoResults) }, "No images found", ""},
		{"error", func(b *Bar) {
			b.SetState(StateError)
			b.SetMessage("rate limited")
		}, "Error: rate limited", ""},
		{"bare error", func(b *Bar) { b.SetState(StateError) }, "Error", ""},
		{"note", func(b *Bar) { b.SetMessage("settings reloaded") }, "settings reloaded", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			tt.setup(bar)

			view := bar.View()

			assert.Contains(t, view, tt.want)
			if tt.notWant != "" {
				assert.NotContains(t, view, tt.notWant)
			}
		})
	}
}

func TestStatusBar_Hints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(120)

	assert.Contains(t, bar.View(), "browse results")

	bar.SetHints(km.ResultsHelp())
	assert.Contains(t, bar.View(), "new search")
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetResults(5, true)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
}

func TestStatusBar_Width(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetWidth(100)

	assert.Equal(t, 100, bar.Width())
}
