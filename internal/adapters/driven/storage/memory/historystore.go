package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore keeps search history in memory. It backs the history
// service when the database cannot be opened.
type HistoryStore struct {
	mu      sync.RWMutex
	entries map[string]domain.HistoryEntry
	order   []string
}

// NewHistoryStore creates an empty history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		entries: make(map[string]domain.HistoryEntry),
	}
}

// Record stores an entry, replacing any entry with the same ID.
func (s *HistoryStore) Record(_ context.Context, entry domain.HistoryEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("history entry without id: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.ID]; !exists {
		s.order = append(s.order, entry.ID)
	}
	s.entries[entry.ID] = entry
	return nil
}

// Recent returns up to limit entries, newest first. Entries with equal
// timestamps are ordered by insertion, latest first.
func (s *HistoryStore) Recent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.HistoryEntry, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		result = append(result, s.entries[s.order[i]])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SearchedAt.After(result[j].SearchedAt)
	})

	if limit <= 0 {
		return []domain.HistoryEntry{}, nil
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Count returns the number of stored entries.
func (s *HistoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Clear removes every entry.
func (s *HistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]domain.HistoryEntry)
	s.order = nil
	return nil
}
