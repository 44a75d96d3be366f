package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// Record stores an entry, replacing any entry with the same ID.
func (s *historyStore) Record(ctx context.Context, entry domain.HistoryEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("history entry without id: %w", domain.ErrInvalidInput)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO search_history (id, query, total_pages, result_count, searched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			query = excluded.query,
			total_pages = excluded.total_pages,
			result_count = excluded.result_count,
			searched_at = excluded.searched_at
	`, entry.ID, entry.Query, entry.TotalPages, entry.ResultCount, entry.SearchedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("recording search: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *historyStore) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		return []domain.HistoryEntry{}, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, query, total_pages, result_count, searched_at
		FROM search_history
		ORDER BY searched_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		var (
			entry      domain.HistoryEntry
			searchedAt int64
		)
		if err := rows.Scan(&entry.ID, &entry.Query, &entry.TotalPages, &entry.ResultCount, &searchedAt); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		entry.SearchedAt = time.Unix(0, searchedAt).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}

	return entries, nil
}

// Count returns the number of stored entries.
func (s *historyStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM search_history").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting history: %w", err)
	}
	return count, nil
}

// Clear removes every entry.
func (s *historyStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM search_history"); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}
