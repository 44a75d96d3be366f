package driving

import (
	"context"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
)

// HistoryService exposes recorded searches.
type HistoryService interface {
	// Recent returns up to limit entries, newest first. A non-positive
	// limit uses the configured default.
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
