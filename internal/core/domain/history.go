package domain

import "time"

// HistoryEntry records one search that returned a first page.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	TotalPages  int       `json:"total_pages"`
	ResultCount int       `json:"result_count"`
	SearchedAt  time.Time `json:"searched_at"`
}
