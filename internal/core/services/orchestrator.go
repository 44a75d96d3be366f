package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driven"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driving"
	"github.com/custodia-labs/imgsearch/internal/logger"
	"github.com/custodia-labs/imgsearch/internal/pipe"
)

// Ensure SearchOrchestrator implements the interface.
var _ driving.ImageSearch = (*SearchOrchestrator)(nil)

// SearchOrchestrator runs paginated image searches against a repository and
// publishes the accumulated results.
//
// A new Search supersedes everything before it: outstanding fetches are
// unsubscribed and any result that still arrives from them is ignored.
// Pagination failures are dropped, leaving the loaded results visible.
type SearchOrchestrator struct {
	repository driven.ImagesRepository

	searchResults      *pipe.Source[domain.Outcome[[]domain.Image]]
	morePagesAvailable *pipe.Source[bool]
	loadingResults     *pipe.Source[bool]
	loadingNextPage    *pipe.Source[bool]

	mu    sync.Mutex
	query string
	page  int
	items []domain.Image
	live  pipe.Subscriptions
	// generation identifies the current query; callbacks carrying an older
	// generation are stale.
	generation  uint64
	pagePending bool
}

// NewSearchOrchestrator creates an orchestrator with empty results.
func NewSearchOrchestrator(repository driven.ImagesRepository) *SearchOrchestrator {
	return &SearchOrchestrator{
		repository:         repository,
		searchResults:      pipe.NewSourceWith(domain.Success([]domain.Image{})),
		morePagesAvailable: pipe.NewSourceWith(false),
		loadingResults:     pipe.NewSourceWith(false),
		loadingNextPage:    pipe.NewSourceWith(false),
		page:               1,
	}
}

// Search starts fetching the first page for query.
//
// A blank query clears the results without contacting the repository.
func (o *SearchOrchestrator) Search(query string) {
	blank := strings.TrimSpace(query) == ""
	if blank {
		query = ""
	}

	o.mu.Lock()
	o.generation++
	gen := o.generation
	stale := o.live
	o.live = nil
	o.query = query
	o.page = 1

	if o.pagePending {
		o.pagePending = false
		o.loadingNextPage.MustPush(false)
	}

	if blank {
		o.items = nil
		o.loadingResults.MustPush(false)
		o.searchResults.MustPush(domain.Success([]domain.Image{}))
		o.morePagesAvailable.MustPush(false)
	} else {
		o.loadingResults.MustPush(true)
	}
	o.mu.Unlock()

	// Unsubscribing takes the fetch streams' locks, which their callbacks
	// hold while waiting for o.mu, so it must happen outside o.mu.
	stale.Unsubscribe()

	if blank {
		logger.Debug("search: cleared")
		return
	}

	logger.Debug("search: query %q (generation %d)", query, gen)
	sub := o.repository.QueryImages(query, 1).Subscribe(func(outcome domain.Outcome[domain.Page]) {
		o.onFirstPage(gen, outcome)
	})
	o.track(gen, sub)
}

// RequestNextPage fetches the page after the last one loaded.
func (o *SearchOrchestrator) RequestNextPage() error {
	o.mu.Lock()
	if o.query == "" {
		o.mu.Unlock()
		return fmt.Errorf("request next page: no query: %w", domain.ErrInvalidState)
	}
	gen := o.generation
	query := o.query
	next := o.page + 1
	o.pagePending = true
	o.loadingNextPage.MustPush(true)
	o.mu.Unlock()

	logger.Debug("search: requesting page %d of %q", next, query)
	sub := o.repository.QueryImages(query, next).Subscribe(func(outcome domain.Outcome[domain.Page]) {
		o.onNextPage(gen, outcome)
	})
	o.track(gen, sub)
	return nil
}

// track records sub as live unless its query has already been superseded.
func (o *SearchOrchestrator) track(gen uint64, sub *pipe.Subscription) {
	o.mu.Lock()
	if gen != o.generation {
		o.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	o.live = append(o.live, sub)
	o.mu.Unlock()
}

func (o *SearchOrchestrator) onFirstPage(gen uint64, outcome domain.Outcome[domain.Page]) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.generation {
		logger.Debug("search: ignoring stale first page (generation %d)", gen)
		return
	}

	o.loadingResults.MustPush(false)

	page, err := outcome.Get()
	if err != nil {
		logger.Warn("search: %q failed: %v", o.query, err)
		o.searchResults.MustPush(domain.Failure[[]domain.Image](err))
		o.morePagesAvailable.MustPush(false)
		return
	}

	o.items = append(make([]domain.Image, 0, len(page.Items)), page.Items...)
	logger.Debug("search: %q page %d/%d, %d images", o.query, page.CurrentPage, page.TotalPages, len(page.Items))
	o.searchResults.MustPush(domain.Success(o.snapshot()))
	o.morePagesAvailable.MustPush(page.HasMore())
}

func (o *SearchOrchestrator) onNextPage(gen uint64, outcome domain.Outcome[domain.Page]) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.generation {
		logger.Debug("search: ignoring stale page (generation %d)", gen)
		return
	}
	o.pagePending = false

	page, err := outcome.Get()
	if err != nil {
		logger.Warn("search: next page of %q failed: %v", o.query, err)
		o.loadingNextPage.MustPush(false)
		return
	}

	o.page++
	o.items = append(o.items, page.Items...)
	logger.Debug("search: %q page %d/%d, %d images total", o.query, page.CurrentPage, page.TotalPages, len(o.items))
	o.loadingNextPage.MustPush(false)
	o.searchResults.MustPush(domain.Success(o.snapshot()))
	o.morePagesAvailable.MustPush(page.HasMore())
}

// snapshot copies the accumulated items. Caller must hold o.mu.
func (o *SearchOrchestrator) snapshot() []domain.Image {
	out := make([]domain.Image, len(o.items))
	copy(out, o.items)
	return out
}

// Close abandons every outstanding fetch. Later results are ignored.
func (o *SearchOrchestrator) Close() {
	o.mu.Lock()
	o.generation++
	stale := o.live
	o.live = nil
	o.mu.Unlock()

	stale.Unsubscribe()
}

// CurrentQuery returns the query of the latest Search.
func (o *SearchOrchestrator) CurrentQuery() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.query
}

// CurrentPage returns the number of pages loaded for the current query.
func (o *SearchOrchestrator) CurrentPage() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.page
}

// SearchResults implements driving.ImageSearch.
func (o *SearchOrchestrator) SearchResults() pipe.Pipe[domain.Outcome[[]domain.Image]] {
	return o.searchResults.Pipe()
}

// MorePagesAvailable implements driving.ImageSearch.
func (o *SearchOrchestrator) MorePagesAvailable() pipe.Pipe[bool] {
	return o.morePagesAvailable.Pipe()
}

// LoadingResults implements driving.ImageSearch.
func (o *SearchOrchestrator) LoadingResults() pipe.Pipe[bool] {
	return o.loadingResults.Pipe()
}

// LoadingNextPage implements driving.ImageSearch.
func (o *SearchOrchestrator) LoadingNextPage() pipe.Pipe[bool] {
	return o.loadingNextPage.Pipe()
}
