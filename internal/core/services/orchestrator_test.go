package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/core/ports/driven"
	"github.com/custodia-labs/imgsearch/internal/pipe"
	"github.com/custodia-labs/imgsearch/internal/pipe/pipetest"
)

const (
	waitTimeout  = time.Second
	pollInterval = time.Millisecond
)

// fakeRequest is one QueryImages call whose result the test pushes by hand.
type fakeRequest struct {
	query  string
	page   int
	source *pipe.Source[domain.Outcome[domain.Page]]
}

// fakeRepository hands out a fresh stream per request.
type fakeRepository struct {
	mu       sync.Mutex
	requests []*fakeRequest
}

func (f *fakeRepository) QueryImages(query string, page int) pipe.Pipe[domain.Outcome[domain.Page]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	req := &fakeRequest{query: query, page: page, source: pipe.NewSource[domain.Outcome[domain.Page]]()}
	f.requests = append(f.requests, req)
	return req.source.Pipe()
}

func (f *fakeRepository) request(t *testing.T, i int) *fakeRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Greater(t, len(f.requests), i, "request %d was never made", i)
	return f.requests[i]
}

func (f *fakeRepository) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (r *fakeRequest) succeed(current, total int, urls ...string) {
	r.source.MustPush(domain.Success(page(current, total, urls...)))
}

func (r *fakeRequest) fail(err error) {
	r.source.MustPush(domain.Failure[domain.Page](err))
}

func page(current, total int, urls ...string) domain.Page {
	items := make([]domain.Image, 0, len(urls))
	for _, u := range urls {
		items = append(items, domain.Image{URL: u})
	}
	return domain.Page{CurrentPage: current, TotalPages: total, Items: items}
}

func images(urls ...string) []domain.Image {
	out := make([]domain.Image, 0, len(urls))
	for _, u := range urls {
		out = append(out, domain.Image{URL: u})
	}
	return out
}

type observed struct {
	results     *pipetest.Tester[domain.Outcome[[]domain.Image]]
	more        *pipetest.Tester[bool]
	loading     *pipetest.Tester[bool]
	loadingNext *pipetest.Tester[bool]
}

func observe(t *testing.T, o *SearchOrchestrator) observed {
	return observed{
		results:     pipetest.Observe(t, o.SearchResults()),
		more:        pipetest.Observe(t, o.MorePagesAvailable()),
		loading:     pipetest.Observe(t, o.LoadingResults()),
		loadingNext: pipetest.Observe(t, o.LoadingNextPage()),
	}
}

func lastResults(t *testing.T, obs observed) domain.Outcome[[]domain.Image] {
	t.Helper()
	v, ok := obs.results.Last()
	require.True(t, ok)
	return v
}

func lastBool(t *testing.T, tester *pipetest.Tester[bool]) bool {
	t.Helper()
	v, ok := tester.Last()
	require.True(t, ok)
	return v
}

func TestSearchOrchestrator_InitialState(t *testing.T) {
	o := NewSearchOrchestrator(&fakeRepository{})
	obs := observe(t, o)

	obs.results.AssertValues(t, domain.Success([]domain.Image{}))
	obs.more.AssertValues(t, false)
	obs.loading.AssertValues(t, false)
	obs.loadingNext.AssertValues(t, false)
	assert.Equal(t, "", o.CurrentQuery())
	assert.Equal(t, 1, o.CurrentPage())
}

func TestSearchOrchestrator_SearchRequestsFirstPage(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)

	o.Search("cats")

	req := repo.request(t, 0)
	assert.Equal(t, "cats", req.query)
	assert.Equal(t, 1, req.page)
	assert.Equal(t, "cats", o.CurrentQuery())
	assert.Equal(t, 1, o.CurrentPage())
}

func TestSearchOrchestrator_LoadingSequence(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)
	obs := observe(t, o)

	o.Search("cats")
	obs.loading.AssertValues(t, false, true)

	repo.request(t, 0).succeed(1, 1, "a")
	obs.loading.AssertValues(t, false, true, false)
}

func TestSearchOrchestrator_FirstPageSuccess(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)
	obs := observe(t, o)

	o.Search("cats")
	repo.request(t, 0).succeed(1, 3, "a", "b")

	assert.Equal(t, domain.Success(images("a", "b")), lastResults(t, obs))
	assert.True(t, lastBool(t, obs.more))
}

func TestSearchOrchestrator_FirstPageFailure(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)
	obs := observe(t, o)
	boom := errors.New("network down")

	o.Search("cats")
	repo.request(t, 0).fail(boom)

	result := lastResults(t, obs)
	require.False(t, result.IsSuccess())
	assert.ErrorIs(t, result.Err(), boom)
	assert.False(t, lastBool(t, obs.more))
	assert.False(t, lastBool(t, obs.loading))
}

func TestSearchOrchestrator_MorePagesAvailable(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    bool
	}{
		{"first of many", 1, 3, true},
		{"last page", 3, 3, false},
		{"single page", 1, 1, false},
		{"no pages", 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			o := NewSearchOrchestrator(repo)
			obs := observe(t, o)

			o.Search("cats")
			repo.request(t, 0).succeed(tt.current, tt.total, "a")

			assert.Equal(t, tt.want, lastBool(t, obs.more))
		})
	}
}

func TestSearchOrchestrator_IgnoresStaleResults(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)
	obs := observe(t, o)

	o.Search("cats")
	o.Search("dogs")
	repo.request(t, 0).succeed(1, 5, "cat")
	repo.request(t, 1).succeed(1, 1, "dog")

	obs.results.AssertValues(t,
		domain.Success([]domain.Image{}),
		domain.Success(images("dog")),
	)
	assert.False(t, lastBool(t, obs.more))
	assert.Equal(t, "dogs", o.CurrentQuery())
}

func TestSearchOrchestrator_UnsubscribesSupersededFetch(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)

	o.Search("cats")
	first := repo.request(t, 0)
	require.Equal(t, 1, first.source.Len())

	o.Search("dogs")

	assert.Equal(t, 0, first.source.Len())
	assert.Equal(t, 1, repo.request(t, 1).source.Len())
}

func TestSearchOrchestrator_StaleResultArrivingAfterNewSearch(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)
	obs := observe(t, o)

	o.Search("cats")
	o.Search("dogs")
	repo.request(t, 1).succeed(1, 1, "dog")
	repo.request(t, 0).succeed(1, 1, "cat")

	assert.Equal(t, domain.Success(images("dog")), lastResults(t, obs))
}

func TestSearchOrchestrator_PaginationAccumulates(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)
	obs := observe(t, o)

	o.Search("cats")
	repo.request(t, 0).succeed(1, 3, "a", "b")

	require.NoError(t, o.RequestNextPage())
	req := repo.request(t, 1)
	assert.Equal(t, "cats", req.query)
	assert.Equal(t, 2, req.page)
	req.succeed(2, 3, "c")

	assert.Equal(t, domain.Success(images("a", "b", "c")), lastResults(t, obs))
	assert.True(t, lastBool(t, obs.more))
	assert.Equal(t, 2, o.CurrentPage())

	require.NoError(t, o.RequestNextPage())
	req = repo.request(t, 2)
	assert.Equal(t, 3, req.page)
	req.succeed(3, 3, "d")

	assert.Equal(t, domain.Success(images("a", "b", "c", "d")), lastResults(t, obs))
	assert.False(t, lastBool(t, obs.more))
	assert.Equal(t, 3, o.CurrentPage())
}

func TestSearchOrchestrator_NextPageLoadingSequence(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)
	obs := observe(t, o)

	o.Search("cats")
	repo.request(t, 0).succeed(1, 2, "a")
	require.NoError(t, o.RequestNextPage())
	obs.loadingNext.AssertValues(t, false, true)

	repo.request(t, 1).succeed(2, 2, "b")
	obs.loadingNext.AssertValues(t, false, true, false)
}

func TestSearchOrchestrator_PaginationErrorKeepsResults(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)
	obs := observe(t, o)

	o.Search("cats")
	repo.request(t, 0).succeed(1, 3, "a", "b")
	resultsBefore := obs.results.Len()
	moreBefore := obs.more.Len()

	require.NoError(t, o.RequestNextPage())
	repo.request(t, 1).fail(errors.New("timeout"))

	assert.Equal(t, resultsBefore, obs.results.Len(), "results must not change")
	assert.Equal(t, moreBefore, obs.more.Len(), "more pages must not change")
	assert.Equal(t, domain.Success(images("a", "b")), lastResults(t, obs))
	assert.True(t, lastBool(t, obs.more))
	assert.False(t, lastBool(t, obs.loadingNext))
	assert.Equal(t, 1, o.CurrentPage())

	// The same page is requested again.
	require.NoError(t, o.RequestNextPage())
	assert.Equal(t, 2, repo.request(t, 2).page)
}

func TestSearchOrchestrator_RequestNextPageWithoutQuery(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)
	obs := observe(t, o)

	err := o.RequestNextPage()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 0, repo.count())
	obs.loadingNext.AssertValues(t, false)
}

func TestSearchOrchestrator_RequestNextPageAfterBlankQuery(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)

	o.Search("   ")

	assert.ErrorIs(t, o.RequestNextPage(), domain.ErrInvalidState)
}

func TestSearchOrchestrator_BlankQueryClearsResults(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)
	obs := observe(t, o)

	o.Search("cats")
	repo.request(t, 0).succeed(1, 3, "a")

	o.Search("")

	assert.Equal(t, 1, repo.count(), "blank query must not reach the repository")
	assert.Equal(t, domain.Success([]domain.Image{}), lastResults(t, obs))
	assert.False(t, lastBool(t, obs.more))
	assert.False(t, lastBool(t, obs.loading))
	assert.Equal(t, "", o.CurrentQuery())
}

func TestSearchOrchestrator_NewSearchResetsPagination(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)
	obs := observe(t, o)

	o.Search("cats")
	repo.request(t, 0).succeed(1, 3, "a")
	require.NoError(t, o.RequestNextPage())
	repo.request(t, 1).succeed(2, 3, "b")

	o.Search("dogs")
	repo.request(t, 2).succeed(1, 2, "x")

	assert.Equal(t, domain.Success(images("x")), lastResults(t, obs))
	assert.Equal(t, 1, o.CurrentPage())

	require.NoError(t, o.RequestNextPage())
	assert.Equal(t, 2, repo.request(t, 3).page)
	assert.Equal(t, "dogs", repo.request(t, 3).query)
}

func TestSearchOrchestrator_SearchDuringPaginationClearsLoadingFlag(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)
	obs := observe(t, o)

	o.Search("cats")
	repo.request(t, 0).succeed(1, 3, "a")
	require.NoError(t, o.RequestNextPage())
	require.True(t, lastBool(t, obs.loadingNext))

	o.Search("dogs")
	assert.False(t, lastBool(t, obs.loadingNext))

	// The superseded page never lands.
	repo.request(t, 1).succeed(2, 3, "b")
	repo.request(t, 2).succeed(1, 1, "x")
	assert.Equal(t, domain.Success(images("x")), lastResults(t, obs))
}

func TestSearchOrchestrator_SynchronousRepository(t *testing.T) {
	repo := func(query string, n int) pipe.Pipe[domain.Outcome[domain.Page]] {
		return pipe.Constant(domain.Success(page(n, 2, query)))
	}
	o := NewSearchOrchestrator(driven.ImagesRepositoryFunc(repo))
	obs := observe(t, o)

	o.Search("cats")
	require.NoError(t, o.RequestNextPage())

	assert.Equal(t, domain.Success(images("cats", "cats")), lastResults(t, obs))
	assert.False(t, lastBool(t, obs.more))
	obs.loading.AssertValues(t, false, true, false)
}

func TestSearchOrchestrator_Close(t *testing.T) {
	repo := &fakeRepository{}
	o := NewSearchOrchestrator(repo)
	obs := observe(t, o)

	o.Search("cats")
	o.Close()
	repo.request(t, 0).succeed(1, 1, "a")

	assert.Equal(t, domain.Success([]domain.Image{}), lastResults(t, obs))
	assert.Equal(t, 0, repo.request(t, 0).source.Len())
}

func TestSearchOrchestrator_ConcurrentSearches(t *testing.T) {
	repo := func(query string, n int) pipe.Pipe[domain.Outcome[domain.Page]] {
		src := pipe.NewSource[domain.Outcome[domain.Page]]()
		go src.MustPush(domain.Success(page(n, 1, query)))
		return src.Pipe()
	}
	o := NewSearchOrchestrator(driven.ImagesRepositoryFunc(repo))

	var wg sync.WaitGroup
	for _, q := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			o.Search(q)
		}(q)
	}
	wg.Wait()

	final := o.CurrentQuery()
	obs := observe(t, o)
	require.Eventually(t, func() bool {
		v, _ := obs.results.Last()
		return v.IsSuccess() && len(v.Value()) == 1 && v.Value()[0].URL == final
	}, waitTimeout, pollInterval)
}
