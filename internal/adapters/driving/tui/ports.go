// Package tui provides an interactive terminal user interface for imgsearch.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driving"
	"github.com/custodia-labs/imgsearch/internal/pipe"
)

// Ports aggregates the driving ports and streams the TUI depends on.
type Ports struct {
	// Presenter drives the search screen. Required.
	Presenter driving.SearchPresenter

	// History lists recent searches. Optional.
	History driving.HistoryService

	// Settings publishes settings after each config reload. Optional.
	Settings pipe.Pipe[domain.AppSettings]
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Presenter == nil {
		return ErrMissingPresenter
	}
	return nil
}
