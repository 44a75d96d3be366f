package domain

import (
	"fmt"
	"time"
)

// SafeSearch is the Flickr safe search level.
type SafeSearch int

// Available safe search levels.
const (
	// SafeSearchSafe hides moderate and restricted content.
	SafeSearchSafe SafeSearch = 1

	// SafeSearchModerate hides restricted content.
	SafeSearchModerate SafeSearch = 2

	// SafeSearchRestricted shows everything.
	SafeSearchRestricted SafeSearch = 3
)

// IsValid returns true if the level is recognised.
func (s SafeSearch) IsValid() bool {
	return s >= SafeSearchSafe && s <= SafeSearchRestricted
}

// String returns the string representation.
func (s SafeSearch) String() string {
	switch s {
	case SafeSearchSafe:
		return "safe"
	case SafeSearchModerate:
		return "moderate"
	case SafeSearchRestricted:
		return "restricted"
	default:
		return "unknown"
	}
}

// FlickrSettings configures the Flickr images repository.
type FlickrSettings struct {
	// APIKey authenticates requests. Required.
	APIKey string

	// BaseURL is the API endpoint root.
	BaseURL string

	// SafeSearch filters results by content level.
	SafeSearch SafeSearch

	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int

	// RequestsPerSecond caps the request rate.
	RequestsPerSecond float64
}

// Timeout returns TimeoutSeconds as a duration.
func (f FlickrSettings) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// DebounceMillis is the quiet window before a typed query is sent.
	DebounceMillis int

	// MaxPages caps how many pages the search command collects.
	MaxPages int
}

// Debounce returns DebounceMillis as a duration.
func (s SearchSettings) Debounce() time.Duration {
	return time.Duration(s.DebounceMillis) * time.Millisecond
}

// CacheSettings configures the page cache.
type CacheSettings struct {
	// Enabled turns the cache on.
	Enabled bool

	// TTLSeconds is how long a page stays cached.
	TTLSeconds int
}

// TTL returns TTLSeconds as a duration.
func (c CacheSettings) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// HistorySettings configures search history.
type HistorySettings struct {
	// Enabled turns recording on.
	Enabled bool

	// Limit is the default number of entries listed.
	Limit int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Flickr holds image provider settings.
	Flickr FlickrSettings

	// Search holds search behaviour settings.
	Search SearchSettings

	// Cache holds page cache settings.
	Cache CacheSettings

	// History holds search history settings.
	History HistorySettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The Flickr API key is left empty; users must configure it.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Flickr: FlickrSettings{
			BaseURL:           "https://api.flickr.com",
			SafeSearch:        SafeSearchSafe,
			TimeoutSeconds:    15,
			RequestsPerSecond: 5,
		},
		Search: SearchSettings{
			DebounceMillis: 200,
			MaxPages:       1,
		},
		Cache: CacheSettings{
			Enabled:    true,
			TTLSeconds: 300,
		},
		History: HistorySettings{
			Enabled: true,
			Limit:   20,
		},
	}
}

// Validate checks that the settings can be used to search.
func (s AppSettings) Validate() error {
	if s.Flickr.APIKey == "" {
		return fmt.Errorf("flickr api key: %w", ErrNotConfigured)
	}
	if !s.Flickr.SafeSearch.IsValid() {
		return fmt.Errorf("safe search level %d: %w", s.Flickr.SafeSearch, ErrInvalidInput)
	}
	if s.Search.DebounceMillis < 0 {
		return fmt.Errorf("debounce %dms: %w", s.Search.DebounceMillis, ErrInvalidInput)
	}
	if s.Search.MaxPages < 1 {
		return fmt.Errorf("max pages %d: %w", s.Search.MaxPages, ErrInvalidInput)
	}
	return nil
}
