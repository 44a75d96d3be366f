package driven

import (
	"context"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
)

// HistoryStore persists recorded searches.
type HistoryStore interface {
	// Record stores an entry.
	Record(ctx context.Context, entry domain.HistoryEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
