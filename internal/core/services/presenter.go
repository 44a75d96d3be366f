package services

import (
	"strings"
	"sync"

	"github.com/custodia-labs/imgsearch/internal/concurrent"
	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driving"
	"github.com/custodia-labs/imgsearch/internal/logger"
	"github.com/custodia-labs/imgsearch/internal/pipe"
)

// Ensure SearchPresenter implements the interface.
var _ driving.SearchPresenter = (*SearchPresenter)(nil)

// SearchPresenter maps the state of an ImageSearch onto view states.
type SearchPresenter struct {
	search   driving.ImageSearch
	executor concurrent.Executor
	state    *pipe.Source[domain.ViewState]

	queryMu sync.RWMutex
	query   string

	mu       sync.Mutex
	started  bool
	combined *pipe.Combined[domain.ViewState]
	subs     pipe.Subscriptions
}

// NewSearchPresenter creates a presenter for search. Searches triggered by
// QueryUpdated run on executor; a nil executor runs them inline.
func NewSearchPresenter(search driving.ImageSearch, executor concurrent.Executor) *SearchPresenter {
	if executor == nil {
		executor = concurrent.Inline
	}
	return &SearchPresenter{
		search:   search,
		executor: executor,
		state:    pipe.NewSourceWith[domain.ViewState](domain.ViewDefault{}),
	}
}

// Start subscribes to the search and returns the view state stream.
// Calling Start again while started returns the same stream.
func (p *SearchPresenter) Start() pipe.Pipe[domain.ViewState] {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return p.state.Pipe()
	}
	p.started = true

	loading := p.search.LoadingResults().Subscribe(func(loading bool) {
		if loading {
			p.state.MustPush(domain.ViewLoading{})
		}
	})
	p.combined = pipe.NewCombined3(
		p.search.SearchResults(),
		p.search.LoadingNextPage(),
		p.search.MorePagesAvailable(),
		p.viewState,
	)
	data := p.combined.Pipe().Subscribe(func(s domain.ViewState) {
		p.state.MustPush(s)
	})
	p.subs = pipe.Subscriptions{loading, data}

	return p.state.Pipe()
}

// Stop releases every subscription. It is safe to call more than once.
func (p *SearchPresenter) Stop() {
	p.mu.Lock()
	subs, combined := p.subs, p.combined
	p.subs, p.combined = nil, nil
	p.started = false
	p.mu.Unlock()

	subs.Unsubscribe()
	if combined != nil {
		combined.Close()
	}
}

// QueryUpdated records query and searches for it.
func (p *SearchPresenter) QueryUpdated(query string) {
	p.queryMu.Lock()
	p.query = query
	p.queryMu.Unlock()

	p.executor.Execute(func() {
		p.search.Search(query)
	})
}

// RequestMoreResults asks for the next page. Without a query there is
// nothing to page through and the request is dropped.
func (p *SearchPresenter) RequestMoreResults() {
	if err := p.search.RequestNextPage(); err != nil {
		logger.Warn("presenter: %v", err)
	}
}

// CurrentQuery returns the last query passed to QueryUpdated.
func (p *SearchPresenter) CurrentQuery() string {
	p.queryMu.RLock()
	defer p.queryMu.RUnlock()
	return p.query
}

func (p *SearchPresenter) viewState(results domain.Outcome[[]domain.Image], loadingNext, morePages bool) domain.ViewState {
	return domain.MatchOutcome(results,
		func(imgs []domain.Image) domain.ViewState {
			if strings.TrimSpace(p.CurrentQuery()) == "" {
				return domain.ViewDefault{}
			}
			if len(imgs) == 0 {
				return domain.ViewNoResults{}
			}

			items := make([]domain.Item, 0, len(imgs)+1)
			for _, img := range imgs {
				items = append(items, domain.ImageItem(img))
			}
			if loadingNext {
				items = append(items, domain.LoadingItem())
			}
			return domain.ViewLoaded{Items: items, MorePages: morePages}
		},
		func(err error) domain.ViewState {
			return domain.ViewFailure{Err: err}
		},
	)
}
