package search

import "errors"

// ErrNoPresenter indicates that no search presenter was provided.
var ErrNoPresenter = errors.New("search presenter is required")
