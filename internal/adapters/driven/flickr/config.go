package flickr

import (
	"net/http"
	"time"

	"github.com/custodia-labs/imgsearch/internal/concurrent"
	"github.com/custodia-labs/imgsearch/internal/core/domain"
)

// Defaults for Config fields left zero.
const (
	DefaultBaseURL           = "https://api.flickr.com"
	DefaultTimeout           = 15 * time.Second
	DefaultRequestsPerSecond = 5.0
	DefaultBurst             = 3
	DefaultWorkers           = 4
)

// Config configures a Repository.
type Config struct {
	// APIKey authenticates requests. Required.
	APIKey string

	// BaseURL is the API root; the search path is appended.
	BaseURL string

	// SafeSearch filters results. Zero means domain.SafeSearchSafe.
	SafeSearch domain.SafeSearch

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// RequestsPerSecond and Burst configure the rate limiter.
	RequestsPerSecond float64
	Burst             int

	// Executor runs fetches. Nil means a pool of DefaultWorkers goroutines.
	Executor concurrent.Executor

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// ConfigFromSettings builds a Config from application settings.
func ConfigFromSettings(s domain.FlickrSettings) Config {
	return Config{
		APIKey:            s.APIKey,
		BaseURL:           s.BaseURL,
		SafeSearch:        s.SafeSearch,
		Timeout:           s.Timeout(),
		RequestsPerSecond: s.RequestsPerSecond,
	}
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if !c.SafeSearch.IsValid() {
		c.SafeSearch = domain.SafeSearchSafe
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.Burst <= 0 {
		c.Burst = DefaultBurst
	}
	if c.Executor == nil {
		c.Executor = concurrent.NewPoolExecutor(DefaultWorkers)
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	return c
}
