// Package cache provides an ImagesRepository decorator that keeps
// successfully fetched pages in memory.
package cache

import (
	"strconv"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driven"
	"github.com/custodia-labs/imgsearch/internal/logger"
	"github.com/custodia-labs/imgsearch/internal/pipe"
)

// DefaultTTL applies when New is given a non-positive ttl.
const DefaultTTL = 5 * time.Minute

var _ driven.ImagesRepository = (*Repository)(nil)

// Repository caches pages returned by another repository. Failures are
// never cached.
type Repository struct {
	repository driven.ImagesRepository
	pages      *gocache.Cache
}

// New wraps repository with a cache whose entries expire after ttl.
func New(repository driven.ImagesRepository, ttl time.Duration) *Repository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repository{
		repository: repository,
		pages:      gocache.New(ttl, 2*ttl),
	}
}

// QueryImages implements driven.ImagesRepository.
func (r *Repository) QueryImages(query string, page int) pipe.Pipe[domain.Outcome[domain.Page]] {
	key := cacheKey(query, page)

	if cached, ok := r.pages.Get(key); ok {
		logger.Debug("cache: hit %s", key)
		return pipe.Constant(domain.Success(cached.(domain.Page)))
	}

	result := r.repository.QueryImages(query, page)

	var once sync.Once
	_ = result.Subscribe(func(outcome domain.Outcome[domain.Page]) {
		once.Do(func() {
			if p, err := outcome.Get(); err == nil {
				r.pages.SetDefault(key, p)
			}
		})
	})
	return result
}

// Flush drops every cached page.
func (r *Repository) Flush() {
	r.pages.Flush()
}

// Len returns the number of cached pages, including expired pages not yet
// cleaned up.
func (r *Repository) Len() int {
	return r.pages.ItemCount()
}

// cacheKey normalises query so that "Cats " and "cats" share entries.
func cacheKey(query string, page int) string {
	return strings.ToLower(strings.TrimSpace(query)) + "#" + strconv.Itoa(page)
}
