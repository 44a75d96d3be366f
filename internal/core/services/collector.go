package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driven"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driving"
	"github.com/custodia-labs/imgsearch/internal/logger"
	"github.com/custodia-labs/imgsearch/internal/pipe"
)

// Ensure Collector implements the interface.
var _ driving.ImageCollector = (*Collector)(nil)

// Collector runs searches to completion for callers without a screen, such
// as the search command and the MCP server. Each call drives its own
// SearchOrchestrator, so concurrent calls do not interfere.
type Collector struct {
	repository driven.ImagesRepository
}

// NewCollector creates a collector over repository.
func NewCollector(repository driven.ImagesRepository) *Collector {
	return &Collector{repository: repository}
}

// settlement reports that the orchestrator has finished handling a fetch.
type settlement struct {
	page int
	err  error
}

// Collect implements driving.ImageCollector.
func (c *Collector) Collect(ctx context.Context, query string, maxPages int) (*domain.Collection, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("collect: empty query: %w", domain.ErrInvalidInput)
	}
	if maxPages < 1 {
		maxPages = 1
	}

	settled := make(chan settlement, maxPages+1)
	orchestrator := NewSearchOrchestrator(c.notifying(settled))
	defer orchestrator.Close()

	var (
		mu      sync.Mutex
		results domain.Outcome[[]domain.Image]
		more    bool
	)
	subs := pipe.Subscriptions{
		orchestrator.SearchResults().Subscribe(func(o domain.Outcome[[]domain.Image]) {
			mu.Lock()
			results = o
			mu.Unlock()
		}),
		orchestrator.MorePagesAvailable().Subscribe(func(m bool) {
			mu.Lock()
			more = m
			mu.Unlock()
		}),
	}
	defer subs.Unsubscribe()

	logger.Section("Collect")
	logger.Debug("collect: %q, up to %d pages", query, maxPages)

	orchestrator.Search(query)
	s, err := awaitSettlement(ctx, settled, 1)
	if err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, fmt.Errorf("collect %q: %w", query, s.err)
	}

	pages := 1
	for pages < maxPages {
		mu.Lock()
		hasMore := more
		mu.Unlock()
		if !hasMore {
			break
		}

		if err := orchestrator.RequestNextPage(); err != nil {
			return nil, err
		}
		s, err := awaitSettlement(ctx, settled, pages+1)
		if err != nil {
			return nil, err
		}
		if s.err != nil {
			logger.Warn("collect: stopping after page %d: %v", pages, s.err)
			break
		}
		pages++
	}

	mu.Lock()
	defer mu.Unlock()
	return &domain.Collection{
		Query:     query,
		Images:    results.Value(),
		Pages:     pages,
		MorePages: more,
	}, nil
}

// notifying wraps the repository so the first outcome of each request is
// reported on settled once the orchestrator has processed it. Later pushes
// on the same stream are not reported, so settled never holds more than one
// entry per request.
func (c *Collector) notifying(settled chan<- settlement) driven.ImagesRepository {
	return driven.ImagesRepositoryFunc(func(query string, page int) pipe.Pipe[domain.Outcome[domain.Page]] {
		var once sync.Once
		return afterDelivery[domain.Outcome[domain.Page]]{
			inner: c.repository.QueryImages(query, page),
			after: func(o domain.Outcome[domain.Page]) {
				once.Do(func() {
					select {
					case settled <- settlement{page: page, err: o.Err()}:
					default:
					}
				})
			},
		}
	})
}

// awaitSettlement waits for page to settle, discarding settlements of any
// other page.
func awaitSettlement(ctx context.Context, settled <-chan settlement, page int) (settlement, error) {
	for {
		select {
		case s := <-settled:
			if s.page == page {
				return s, nil
			}
			logger.Debug("collect: ignoring settlement of page %d while waiting for page %d", s.page, page)
		case <-ctx.Done():
			return settlement{}, fmt.Errorf("collect: %w", ctx.Err())
		}
	}
}

// afterDelivery calls after once each consumer has returned from a value.
type afterDelivery[T any] struct {
	inner pipe.Pipe[T]
	after func(T)
}

func (p afterDelivery[T]) Subscribe(consumer func(T)) *pipe.Subscription {
	return p.inner.Subscribe(func(v T) {
		consumer(v)
		p.after(v)
	})
}
