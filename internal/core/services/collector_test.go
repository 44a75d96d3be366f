package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driven"
	"github.com/custodia-labs/imgsearch/internal/pipe"
)

// scriptedRepository answers each page asynchronously from a fixed script.
type scriptedRepository struct {
	total  int
	failOn map[int]error

	mu    sync.Mutex
	pages []int
}

func (s *scriptedRepository) QueryImages(query string, n int) pipe.Pipe[domain.Outcome[domain.Page]] {
	s.mu.Lock()
	s.pages = append(s.pages, n)
	s.mu.Unlock()

	src := pipe.NewSource[domain.Outcome[domain.Page]]()
	go func() {
		if err, ok := s.failOn[n]; ok {
			src.MustPush(domain.Failure[domain.Page](err))
			return
		}
		src.MustPush(domain.Success(page(n, s.total, fmt.Sprintf("%s-%d", query, n))))
	}()
	return src.Pipe()
}

func (s *scriptedRepository) requested() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.pages...)
}

func TestCollector_CollectsUpToMaxPages(t *testing.T) {
	repo := &scriptedRepository{total: 10}
	c := NewCollector(repo)

	got, err := c.Collect(context.Background(), "cats", 3)

	require.NoError(t, err)
	assert.Equal(t, "cats", got.Query)
	assert.Equal(t, images("cats-1", "cats-2", "cats-3"), got.Images)
	assert.Equal(t, 3, got.Pages)
	assert.True(t, got.MorePages)
	assert.Equal(t, []int{1, 2, 3}, repo.requested())
}

func TestCollector_StopsAtLastPage(t *testing.T) {
	repo := &scriptedRepository{total: 2}
	c := NewCollector(repo)

	got, err := c.Collect(context.Background(), "cats", 5)

	require.NoError(t, err)
	assert.Equal(t, 2, got.Pages)
	assert.False(t, got.MorePages)
	assert.Equal(t, []int{1, 2}, repo.requested())
}

func TestCollector_DefaultsToOnePage(t *testing.T) {
	repo := &scriptedRepository{total: 4}
	c := NewCollector(repo)

	got, err := c.Collect(context.Background(), "  cats ", 0)

	require.NoError(t, err)
	assert.Equal(t, "cats", got.Query)
	assert.Equal(t, 1, got.Pages)
	assert.Equal(t, images("cats-1"), got.Images)
}

func TestCollector_FirstPageFailure(t *testing.T) {
	boom := errors.New("boom")
	c := NewCollector(&scriptedRepository{total: 3, failOn: map[int]error{1: boom}})

	got, err := c.Collect(context.Background(), "cats", 3)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestCollector_LaterPageFailureKeepsLoadedImages(t *testing.T) {
	repo := &scriptedRepository{total: 5, failOn: map[int]error{3: errors.New("boom")}}
	c := NewCollector(repo)

	got, err := c.Collect(context.Background(), "cats", 5)

	require.NoError(t, err)
	assert.Equal(t, images("cats-1", "cats-2"), got.Images)
	assert.Equal(t, 2, got.Pages)
	assert.True(t, got.MorePages)
}

func TestCollector_EmptyQuery(t *testing.T) {
	repo := &scriptedRepository{total: 1}
	c := NewCollector(repo)

	_, err := c.Collect(context.Background(), "   ", 1)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, repo.requested())
}

func TestCollector_ContextCancelled(t *testing.T) {
	silent := driven.ImagesRepositoryFunc(func(string, int) pipe.Pipe[domain.Outcome[domain.Page]] {
		return pipe.NewSource[domain.Outcome[domain.Page]]().Pipe()
	})
	c := NewCollector(silent)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Collect(ctx, "cats", 1)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCollector_SynchronousRepository(t *testing.T) {
	repo := driven.ImagesRepositoryFunc(func(query string, n int) pipe.Pipe[domain.Outcome[domain.Page]] {
		return pipe.Constant(domain.Success(page(n, 3, query)))
	})
	c := NewCollector(repo)

	got, err := c.Collect(context.Background(), "cats", 3)

	require.NoError(t, err)
	assert.Equal(t, 3, got.Pages)
	assert.Len(t, got.Images, 3)
	assert.False(t, got.MorePages)
}

func TestCollector_ConcurrentCallsAreIndependent(t *testing.T) {
	c := NewCollector(&scriptedRepository{total: 2})

	var wg sync.WaitGroup
	for _, q := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			got, err := c.Collect(context.Background(), q, 2)
			assert.NoError(t, err)
			assert.Equal(t, images(q+"-1", q+"-2"), got.Images)
		}(q)
	}
	wg.Wait()
}

// repeatingRepository pushes page 1 a second time after page 2 has been
// requested, and only then answers page 2.
type repeatingRepository struct {
	page2Requested chan struct{}
	repeated       chan struct{}
}

func (r *repeatingRepository) QueryImages(query string, n int) pipe.Pipe[domain.Outcome[domain.Page]] {
	src := pipe.NewSource[domain.Outcome[domain.Page]]()
	result := domain.Success(page(n, 5, fmt.Sprintf("%s-%d", query, n)))
	switch n {
	case 1:
		go func() {
			src.MustPush(result)
			<-r.page2Requested
			src.MustPush(result)
			close(r.repeated)
		}()
	case 2:
		close(r.page2Requested)
		go func() {
			<-r.repeated
			src.MustPush(result)
		}()
	}
	return src.Pipe()
}

func TestCollector_RepeatedPageDoesNotSettleNextPage(t *testing.T) {
	repo := &repeatingRepository{page2Requested: make(chan struct{}), repeated: make(chan struct{})}
	c := NewCollector(repo)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := c.Collect(ctx, "cats", 2)

	require.NoError(t, err)
	assert.Equal(t, 2, got.Pages)
	assert.Equal(t, images("cats-1", "cats-2"), got.Images)
}

func TestAwaitSettlement_SkipsOtherPages(t *testing.T) {
	settled := make(chan settlement, 3)
	settled <- settlement{page: 1}
	settled <- settlement{page: 1}
	settled <- settlement{page: 2, err: errors.New("boom")}

	s, err := awaitSettlement(context.Background(), settled, 2)

	require.NoError(t, err)
	assert.Equal(t, 2, s.page)
	assert.EqualError(t, s.err, "boom")
}
