package mcp

import (
	"context"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
)

// mockCollector is a mock implementation of driving.ImageCollector.
type mockCollector struct {
	collection *domain.Collection
	err        error

	query    string
	maxPages int
}

func (m *mockCollector) Collect(_ context.Context, query string, maxPages int) (*domain.Collection, error) {
	m.query = query
	m.maxPages = maxPages
	if m.err != nil {
		return nil, m.err
	}
	if m.collection == nil {
		return &domain.Collection{Query: query, Images: []domain.Image{}}, nil
	}
	return m.collection, nil
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	entries []domain.HistoryEntry
	err     error
	limit   int
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	m.limit = limit
	return m.entries, m.err
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	return m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }
func (m *mockSettingsService) Set(_, _ string) error            { return m.err }
func (m *mockSettingsService) Keys() []string                   { return nil }
func (m *mockSettingsService) Path() string                     { return "" }

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}
