package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
)

func TestHistoryStore_RecentNewestFirst(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, domain.HistoryEntry{ID: "1", Query: "cats", SearchedAt: base}))
	require.NoError(t, store.Record(ctx, domain.HistoryEntry{ID: "2", Query: "dogs", SearchedAt: base.Add(2 * time.Minute)}))
	require.NoError(t, store.Record(ctx, domain.HistoryEntry{ID: "3", Query: "birds", SearchedAt: base.Add(time.Minute)}))

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "dogs", got[0].Query)
	assert.Equal(t, "birds", got[1].Query)
	assert.Equal(t, "cats", got[2].Query)
}

func TestHistoryStore_EqualTimestampsLatestInsertFirst(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	at := time.Now()

	require.NoError(t, store.Record(ctx, domain.HistoryEntry{ID: "1", Query: "first", SearchedAt: at}))
	require.NoError(t, store.Record(ctx, domain.HistoryEntry{ID: "2", Query: "second", SearchedAt: at}))

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "second", got[0].Query)
}

func TestHistoryStore_Limit(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	base := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Record(ctx, domain.HistoryEntry{ID: id, Query: id, SearchedAt: base.Add(time.Duration(i) * time.Second)}))
	}

	got, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHistoryStore_ReplaceSameID(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, domain.HistoryEntry{ID: "1", Query: "cats"}))
	require.NoError(t, store.Record(ctx, domain.HistoryEntry{ID: "1", Query: "kittens"}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "kittens", got[0].Query)
}

func TestHistoryStore_RequiresID(t *testing.T) {
	err := NewHistoryStore().Record(context.Background(), domain.HistoryEntry{Query: "cats"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryStore_Clear(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	require.NoError(t, store.Record(ctx, domain.HistoryEntry{ID: "1", Query: "cats"}))

	require.NoError(t, store.Clear(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	got, err := store.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
