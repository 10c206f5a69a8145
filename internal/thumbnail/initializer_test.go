package thumbnail

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idList []string

func (l idList) IDs() []string { return l }

func initFixture(t *testing.T, n int, gate chan struct{}) (*fixture, idList) {
	t.Helper()
	body := testGIF(t, 16, 16)
	fetcher := &fakeFetcher{bodies: map[string][]byte{}, gate: gate}
	urls := staticURLs{}
	var ids idList
	for i := 1; i <= n; i++ {
		id := fmt.Sprint(i)
		u := "https://assets.test/" + id + ".gif"
		urls[id] = []string{u}
		fetcher.bodies[u] = body
		ids = append(ids, id)
	}
	return newFixture(t, urls, fetcher), ids
}

func TestInitializer_GeneratesAll(t *testing.T) {
	f, ids := initFixture(t, 5, nil)
	warmer := NewInitializer(f.cache, ids)

	require.NoError(t, warmer.Initialize(context.Background()))
	assert.False(t, warmer.InProgress())
	assert.InDelta(t, 100, warmer.Progress(), 0.001)

	stats, err := f.cache.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalThumbnails)
}

func TestInitializer_SkipsWhenMostlyCached(t *testing.T) {
	f, ids := initFixture(t, 10, nil)
	ctx := context.Background()
	_, err := f.cache.BatchGenerate(ctx, ids[:8], nil)
	require.NoError(t, err)
	calls := f.fetcher.calls.Load()

	warmer := NewInitializer(f.cache, ids)
	require.NoError(t, warmer.Initialize(ctx))
	assert.Equal(t, calls, f.fetcher.calls.Load())
}

func TestInitializer_RejectsReentry(t *testing.T) {
	gate := make(chan struct{})
	f, ids := initFixture(t, 3, gate)
	warmer := NewInitializer(f.cache, ids)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- warmer.Initialize(ctx) }()

	require.Eventually(t, warmer.InProgress, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, warmer.Initialize(ctx), ErrInitInProgress)

	close(gate)
	require.NoError(t, <-done)
	assert.False(t, warmer.InProgress())
}

func TestInitializer_Prioritize(t *testing.T) {
	f, ids := initFixture(t, 4, nil)
	warmer := NewInitializer(f.cache, ids)

	res, err := warmer.Prioritize(context.Background(), []string{"2", "4"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Generated)

	res, err = warmer.Prioritize(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestInitializer_CleanupAndReinitialize(t *testing.T) {
	f, ids := initFixture(t, 4, nil)
	warmer := NewInitializer(f.cache, ids)
	ctx := context.Background()

	cleared, err := warmer.CleanupAndReinitialize(ctx)
	require.NoError(t, err)
	assert.Zero(t, cleared)

	require.NoError(t, warmer.Initialize(ctx))
	f.clock.Advance(31 * 24 * time.Hour)

	cleared, err = warmer.CleanupAndReinitialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, cleared)

	stats, err := f.cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalThumbnails)
}

func TestInitializer_CleanupReportsReinitError(t *testing.T) {
	f, ids := initFixture(t, 2, nil)
	warmer := NewInitializer(f.cache, ids)
	ctx := context.Background()

	require.NoError(t, warmer.Initialize(ctx))
	f.clock.Advance(31 * 24 * time.Hour)

	warmer.running.Store(true)
	cleared, err := warmer.CleanupAndReinitialize(ctx)
	warmer.running.Store(false)

	assert.Equal(t, 2, cleared)
	assert.ErrorIs(t, err, ErrInitInProgress)
}
