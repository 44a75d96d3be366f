package flickr

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
)

// ErrMalformedResponse indicates a response body that is not a photo search
// result.
var ErrMalformedResponse = errors.New("flickr: malformed response")

// APIError is a failure reported by Flickr, either as an HTTP status or as
// a {"stat":"fail"} body.
type APIError struct {
	// StatusCode is the HTTP status, or 200 for a failed stat.
	StatusCode int

	// Code is Flickr's error code, when the body carried one.
	Code int

	// Message is Flickr's error message or the HTTP status text.
	Message string

	// RetryAt is when requests resume after a 429; zero otherwise.
	RetryAt time.Time
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("flickr: error %d: %s", e.Code, e.Message)
	}
	if !e.RetryAt.IsZero() {
		return fmt.Sprintf("flickr: http %d: %s (retry after %s)", e.StatusCode, e.Message, e.RetryAt.Format(time.TimeOnly))
	}
	return fmt.Sprintf("flickr: http %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the error onto the domain sentinels.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusTooManyRequests {
		return domain.ErrRateLimited
	}
	return domain.ErrUpstream
}
