package mcp

import (
	"github.com/custodia-labs/imgsearch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Collector runs image searches.
	Collector driving.ImageCollector

	// History lists recent searches.
	History driving.HistoryService

	// Settings supplies the default page count.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Collector == nil {
		return ErrMissingCollector
	}
	// History and Settings are optional
	return nil
}
