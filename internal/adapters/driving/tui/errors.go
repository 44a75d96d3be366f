package tui

import "errors"

// ErrMissingPresenter is returned when the search presenter is not provided.
var ErrMissingPresenter = errors.New("tui: search presenter is required")

// ErrInvalidPorts is returned when no ports are provided.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
