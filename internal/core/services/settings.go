package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driven"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvAPIKey overrides the configured Flickr API key when set.
//
//nolint:gosec // G101: This is an environment variable name, not a credential.
const EnvAPIKey = "IMGSEARCH_FLICKR_API_KEY"

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyFlickrAPIKey            = "flickr.api_key"
	KeyFlickrBaseURL           = "flickr.base_url"
	KeyFlickrSafeSearch        = "flickr.safe_search"
	KeyFlickrTimeoutSeconds    = "flickr.timeout_seconds"
	KeyFlickrRequestsPerSecond = "flickr.requests_per_second"
	KeySearchDebounceMillis    = "search.debounce_ms"
	KeySearchMaxPages          = "search.max_pages"
	KeyCacheEnabled            = "cache.enabled"
	KeyCacheTTLSeconds         = "cache.ttl_seconds"
	KeyHistoryEnabled          = "history.enabled"
	KeyHistoryLimit            = "history.limit"
)

// settingParsers convert the string form of each key accepted by Set.
var settingParsers = map[string]func(string) (any, error){
	KeyFlickrAPIKey:            parseNonEmpty,
	KeyFlickrBaseURL:           parseURL,
	KeyFlickrSafeSearch:        parseSafeSearch,
	KeyFlickrTimeoutSeconds:    parsePositiveInt,
	KeyFlickrRequestsPerSecond: parsePositiveFloat,
	KeySearchDebounceMillis:    parseNonNegativeInt,
	KeySearchMaxPages:          parsePositiveInt,
	KeyCacheEnabled:            parseBool,
	KeyCacheTTLSeconds:         parsePositiveInt,
	KeyHistoryEnabled:          parseBool,
	KeyHistoryLimit:            parsePositiveInt,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings, falling back to defaults for
// anything unset or out of range.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Flickr: domain.FlickrSettings{
			APIKey:            s.configStore.GetString(KeyFlickrAPIKey),
			BaseURL:           strings.TrimRight(s.getString(KeyFlickrBaseURL, defaults.Flickr.BaseURL), "/"),
			SafeSearch:        s.getSafeSearch(defaults.Flickr.SafeSearch),
			TimeoutSeconds:    s.getPositiveInt(KeyFlickrTimeoutSeconds, defaults.Flickr.TimeoutSeconds),
			RequestsPerSecond: s.getPositiveFloat(KeyFlickrRequestsPerSecond, defaults.Flickr.RequestsPerSecond),
		},
		Search: domain.SearchSettings{
			DebounceMillis: s.getInt(KeySearchDebounceMillis, defaults.Search.DebounceMillis),
			MaxPages:       s.getPositiveInt(KeySearchMaxPages, defaults.Search.MaxPages),
		},
		Cache: domain.CacheSettings{
			Enabled:    s.getBool(KeyCacheEnabled, defaults.Cache.Enabled),
			TTLSeconds: s.getPositiveInt(KeyCacheTTLSeconds, defaults.Cache.TTLSeconds),
		},
		History: domain.HistorySettings{
			Enabled: s.getBool(KeyHistoryEnabled, defaults.History.Enabled),
			Limit:   s.getPositiveInt(KeyHistoryLimit, defaults.History.Limit),
		},
	}

	if settings.Search.DebounceMillis < 0 {
		settings.Search.DebounceMillis = defaults.Search.DebounceMillis
	}
	if key := s.getenv(EnvAPIKey); key != "" {
		settings.Flickr.APIKey = key
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyFlickrBaseURL, settings.Flickr.BaseURL},
		{KeyFlickrSafeSearch, int(settings.Flickr.SafeSearch)},
		{KeyFlickrTimeoutSeconds, settings.Flickr.TimeoutSeconds},
		{KeyFlickrRequestsPerSecond, settings.Flickr.RequestsPerSecond},
		{KeySearchDebounceMillis, settings.Search.DebounceMillis},
		{KeySearchMaxPages, settings.Search.MaxPages},
		{KeyCacheEnabled, settings.Cache.Enabled},
		{KeyCacheTTLSeconds, settings.Cache.TTLSeconds},
		{KeyHistoryEnabled, settings.History.Enabled},
		{KeyHistoryLimit, settings.History.Limit},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Keys supplied through the environment stay out of the file.
	if settings.Flickr.APIKey != "" && settings.Flickr.APIKey != s.getenv(EnvAPIKey) {
		if err := s.configStore.Set(KeyFlickrAPIKey, settings.Flickr.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyFlickrAPIKey, err)
		}
	}

	return nil
}

// Set updates one setting from its string form.
func (s *SettingsService) Set(key, value string) error {
	parse, ok := settingParsers[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidArgument)
	}

	parsed, err := parse(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the configuration keys accepted by Set, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingParsers))
	for k := range settingParsers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSafeSearch(defaultVal domain.SafeSearch) domain.SafeSearch {
	level := domain.SafeSearch(s.configStore.GetInt(KeyFlickrSafeSearch))
	if !level.IsValid() {
		return defaultVal
	}
	return level
}

// Parsers for Set.

func parseNonEmpty(v string) (any, error) {
	if v == "" {
		return nil, fmt.Errorf("empty value: %w", domain.ErrInvalidInput)
	}
	return v, nil
}

func parseURL(v string) (any, error) {
	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		return nil, fmt.Errorf("%q is not an http(s) URL: %w", v, domain.ErrInvalidInput)
	}
	return strings.TrimRight(v, "/"), nil
}

func parseSafeSearch(v string) (any, error) {
	for _, level := range []domain.SafeSearch{domain.SafeSearchSafe, domain.SafeSearchModerate, domain.SafeSearchRestricted} {
		if strings.EqualFold(v, level.String()) {
			return int(level), nil
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil || !domain.SafeSearch(n).IsValid() {
		return nil, fmt.Errorf("%q is not safe, moderate, restricted or 1-3: %w", v, domain.ErrInvalidInput)
	}
	return n, nil
}

func parsePositiveInt(v string) (any, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("%q is not a positive integer: %w", v, domain.ErrInvalidInput)
	}
	return n, nil
}

func parseNonNegativeInt(v string) (any, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%q is not a non-negative integer: %w", v, domain.ErrInvalidInput)
	}
	return n, nil
}

func parsePositiveFloat(v string) (any, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return nil, fmt.Errorf("%q is not a positive number: %w", v, domain.ErrInvalidInput)
	}
	return f, nil
}

func parseBool(v string) (any, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%q is not a boolean: %w", v, domain.ErrInvalidInput)
	}
	return b, nil
}
