package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/imgsearch/internal/concurrent"
	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driven"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driving"
	"github.com/custodia-labs/imgsearch/internal/logger"
	"github.com/custodia-labs/imgsearch/internal/pipe"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService lists and clears recorded searches.
type HistoryService struct {
	store        driven.HistoryStore
	defaultLimit int
}

// NewHistoryService creates a history service. Recent uses defaultLimit
// when called with a non-positive limit.
func NewHistoryService(store driven.HistoryStore, defaultLimit int) *HistoryService {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultAppSettings().History.Limit
	}
	return &HistoryService{store: store, defaultLimit: defaultLimit}
}

// Recent returns up to limit entries, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	return s.store.Recent(ctx, limit)
}

// Clear removes every entry.
func (s *HistoryService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// recordTimeout bounds each history write.
const recordTimeout = 5 * time.Second

// recordWorkers is how many history writes may run at once. Delivery only
// waits for a worker when this many writes are already in flight.
const recordWorkers = 2

// Ensure HistoryRecorder implements the interface.
var _ driven.ImagesRepository = (*HistoryRecorder)(nil)

// HistoryRecorder decorates an images repository, recording every query
// whose first page is delivered to a subscriber. Later pages, failures and
// results nobody is subscribed to are not recorded. Writes run on an
// executor so the page reaches its subscriber without waiting on the store.
type HistoryRecorder struct {
	repository driven.ImagesRepository
	store      driven.HistoryStore
	executor   concurrent.Executor
	now        func() time.Time
	newID      func() string
}

// NewHistoryRecorder wraps repository.
func NewHistoryRecorder(repository driven.ImagesRepository, store driven.HistoryStore) *HistoryRecorder {
	return &HistoryRecorder{
		repository: repository,
		store:      store,
		executor:   concurrent.NewPoolExecutor(recordWorkers),
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// QueryImages implements driven.ImagesRepository.
func (r *HistoryRecorder) QueryImages(query string, page int) pipe.Pipe[domain.Outcome[domain.Page]] {
	result := r.repository.QueryImages(query, page)
	if page != 1 {
		return result
	}
	return &recordingPipe{
		inner: result,
		record: func(p domain.Page) {
			entry := r.entry(query, p)
			r.executor.Execute(func() { r.save(entry) })
		},
	}
}

// Wait blocks until every submitted write has finished. Call it after the
// searches feeding the recorder have stopped.
func (r *HistoryRecorder) Wait() {
	if w, ok := r.executor.(interface{ Wait() }); ok {
		w.Wait()
	}
}

func (r *HistoryRecorder) entry(query string, page domain.Page) domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:          r.newID(),
		Query:       strings.TrimSpace(query),
		TotalPages:  page.TotalPages,
		ResultCount: len(page.Items),
		SearchedAt:  r.now(),
	}
}

func (r *HistoryRecorder) save(entry domain.HistoryEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := r.store.Record(ctx, entry); err != nil {
		logger.Warn("history: recording %q failed: %v", entry.Query, err)
		return
	}
	logger.Debug("history: recorded %q", entry.Query)
}

// recordingPipe hands the first successful page delivered to any of its
// subscribers to record, after the subscriber has seen it.
type recordingPipe struct {
	inner  pipe.Pipe[domain.Outcome[domain.Page]]
	once   sync.Once
	record func(domain.Page)
}

func (p *recordingPipe) Subscribe(consumer func(domain.Outcome[domain.Page])) *pipe.Subscription {
	if consumer == nil {
		panic("pipe: nil consumer")
	}
	return p.inner.Subscribe(func(outcome domain.Outcome[domain.Page]) {
		consumer(outcome)
		if page, err := outcome.Get(); err == nil {
			p.once.Do(func() { p.record(page) })
		}
	})
}
