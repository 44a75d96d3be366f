package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidArgument indicates a caller passed a value the operation
	// never accepts. It signals a programming error.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState indicates an operation was called before its
	// preconditions were met, such as paging before any search.
	ErrInvalidState = errors.New("invalid state")

	// ErrNotConfigured indicates a required setting is missing.
	ErrNotConfigured = errors.New("not configured")

	// Upstream Errors.

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrUpstream indicates the image provider returned an error.
	ErrUpstream = errors.New("upstream error")
)
