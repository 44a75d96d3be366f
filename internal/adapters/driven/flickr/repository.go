package flickr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/imgsearch/internal/concurrent"
	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driven"
	"github.com/custodia-labs/imgsearch/internal/logger"
	"github.com/custodia-labs/imgsearch/internal/pipe"
)

var _ driven.ImagesRepository = (*Repository)(nil)

// searchPath is appended to the base URL.
const searchPath = "/services/rest/"

// maxBodySize caps how much of a response is read.
const maxBodySize = 4 << 20

// Repository fetches image pages from Flickr.
type Repository struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	executor concurrent.Executor
	limiter  *RateLimiter

	mu         sync.RWMutex
	safeSearch domain.SafeSearch
}

// NewRepository creates a Flickr repository.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("flickr: api key: %w", domain.ErrNotConfigured)
	}
	cfg = cfg.withDefaults()

	return &Repository{
		client:     cfg.HTTPClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		safeSearch: cfg.SafeSearch,
		executor:   cfg.Executor,
		limiter:    NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
	}, nil
}

// QueryImages implements driven.ImagesRepository. The fetch runs on the
// configured executor; the returned pipe delivers its single outcome.
func (r *Repository) QueryImages(query string, page int) pipe.Pipe[domain.Outcome[domain.Page]] {
	result := pipe.NewSource[domain.Outcome[domain.Page]]()

	r.executor.Execute(func() {
		p, err := r.Fetch(context.Background(), query, page)
		if err != nil {
			result.MustPush(domain.Failure[domain.Page](err))
			return
		}
		result.MustPush(domain.Success(p))
	})

	return result.Pipe()
}

// Fetch loads one page synchronously.
func (r *Repository) Fetch(ctx context.Context, query string, page int) (domain.Page, error) {
	if page < 1 {
		return domain.Page{}, fmt.Errorf("flickr: page %d: %w", page, domain.ErrInvalidArgument)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return domain.Page{}, fmt.Errorf("flickr: waiting for rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.SearchURL(query, page), http.NoBody)
	if err != nil {
		return domain.Page{}, fmt.Errorf("flickr: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("flickr: GET page %d of %q", page, query)
	start := time.Now()

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.Page{}, fmt.Errorf("flickr: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return domain.Page{}, fmt.Errorf("flickr: read response: %w", err)
	}

	logger.Debug("flickr: %d in %s (%d bytes)", resp.StatusCode, time.Since(start).Round(time.Millisecond), len(body))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		r.limiter.Backoff(retryAfter(resp.Header.Get("Retry-After")))
		return domain.Page{}, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			RetryAt:    r.limiter.RetryAt(),
		}
	case resp.StatusCode != http.StatusOK:
		return domain.Page{}, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	return ParsePage(body)
}

// SearchURL returns the request URL for page of query.
func (r *Repository) SearchURL(query string, page int) string {
	params := url.Values{}
	params.Set("method", "flickr.photos.search")
	params.Set("api_key", r.apiKey)
	params.Set("format", "json")
	params.Set("nojsoncallback", "1")
	params.Set("safe_search", strconv.Itoa(int(r.SafeSearch())))
	params.Set("page", strconv.Itoa(page))
	params.Set("text", query)
	return r.baseURL + searchPath + "?" + params.Encode()
}

// SafeSearch returns the filter level sent with each request.
func (r *Repository) SafeSearch() domain.SafeSearch {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.safeSearch
}

// SetSafeSearch changes the filter level for later requests. Invalid
// levels are ignored.
func (r *Repository) SetSafeSearch(level domain.SafeSearch) {
	if !level.IsValid() {
		return
	}
	r.mu.Lock()
	r.safeSearch = level
	r.mu.Unlock()
}

// Limiter returns the repository's rate limiter.
func (r *Repository) Limiter() *RateLimiter {
	return r.limiter
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
