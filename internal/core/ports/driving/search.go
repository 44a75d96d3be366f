package driving

import (
	"context"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/pipe"
)

// ImageSearch drives a paginated image search and publishes its state.
//
// Every output pipe replays its latest value on subscribe. Consumers run on
// whichever goroutine settles a fetch and must not call back into the
// ImageSearch synchronously.
type ImageSearch interface {
	// Search starts a new query, discarding any fetch still in flight.
	Search(query string)

	// RequestNextPage fetches the page after the last one loaded.
	// Returns an error wrapping domain.ErrInvalidState if no query has
	// been searched.
	RequestNextPage() error

	// SearchResults publishes every image loaded for the current query,
	// or the error that ended its first page.
	SearchResults() pipe.Pipe[domain.Outcome[[]domain.Image]]

	// MorePagesAvailable publishes whether another page exists.
	MorePagesAvailable() pipe.Pipe[bool]

	// LoadingResults publishes whether the first page is loading.
	LoadingResults() pipe.Pipe[bool]

	// LoadingNextPage publishes whether a further page is loading.
	LoadingNextPage() pipe.Pipe[bool]
}

// ImageCollector runs a complete search without a user driving it, loading
// pages until maxPages or the last page is reached.
type ImageCollector interface {
	// Collect searches query and returns every image loaded. A failed first
	// page is returned as an error; a failed later page ends collection
	// early with the images loaded so far.
	Collect(ctx context.Context, query string, maxPages int) (*domain.Collection, error)
}

// SearchPresenter turns search state into view states for one screen.
type SearchPresenter interface {
	// Start begins presenting and returns the view state stream.
	Start() pipe.Pipe[domain.ViewState]

	// Stop releases the presenter's subscriptions.
	Stop()

	// QueryUpdated is called whenever the user edits the query.
	QueryUpdated(query string)

	// RequestMoreResults is called when the user reaches the end of the list.
	RequestMoreResults()
}
