package driven

import (
	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/pipe"
)

// ImagesRepository fetches pages of images.
type ImagesRepository interface {
	// QueryImages starts fetching page number page (1-based) of the results
	// for a non-empty query. It returns immediately; the returned pipe
	// eventually delivers one Outcome. Implementations must not block the
	// caller on network I/O.
	QueryImages(query string, page int) pipe.Pipe[domain.Outcome[domain.Page]]
}

// ImagesRepositoryFunc adapts a function to the ImagesRepository interface.
type ImagesRepositoryFunc func(query string, page int) pipe.Pipe[domain.Outcome[domain.Page]]

// QueryImages calls f(query, page).
func (f ImagesRepositoryFunc) QueryImages(query string, page int) pipe.Pipe[domain.Outcome[domain.Page]] {
	return f(query, page)
}
