package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitprogram/internal/domain"
	"alcyxob/fitprogram/internal/repository"
)

const (
	goodURL    = "https://assets.test/exercise-gifs/pectorals/204.gif"
	missingURL = "https://assets.test/exercise-gifs/204.gif"
)

func TestRender(t *testing.T) {
	out, err := Render(testGIF(t, 300, 180), 120, 80)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())

	_, err = Render([]byte("not an image"), 120, 80)
	assert.Error(t, err)
}

func TestGenerate_FirstWorkingCandidate(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string][]byte{goodURL: testGIF(t, 64, 64)}}
	f := newFixture(t, staticURLs{"204": {missingURL, goodURL}}, fetcher)
	ctx := context.Background()

	path, err := f.cache.Generate(ctx, "204")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.dir, "thumbnails", "204.jpg"), path)
	assert.Equal(t, int32(2), fetcher.calls.Load())

	info, err := os.Stat(path)
	require.NoError(t, err)

	// index persisted under the cache key
	var idx domain.ThumbnailIndex
	require.NoError(t, repository.GetJSON(ctx, f.store, repository.KeyThumbnailIndex, &idx))
	require.Contains(t, idx, "204")
	assert.Equal(t, path, idx["204"].LocalPath)
	assert.Equal(t, info.Size(), idx["204"].Size)
	assert.Equal(t, f.clock.Now().UnixMilli(), idx["204"].Timestamp)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CounterThumbnailsGenerated))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.GaugeThumbnailsCache))
}

func TestGenerate_Failures(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string][]byte{
		"https://assets.test/broken.gif": []byte("GIF89a-garbage"),
	}}
	f := newFixture(t, staticURLs{
		"1": {missingURL, "https://assets.test/broken.gif"},
	}, fetcher)
	ctx := context.Background()

	_, err := f.cache.Generate(ctx, "no-urls")
	assert.ErrorIs(t, err, ErrNoCandidateURLs)

	_, err = f.cache.Generate(ctx, "1")
	assert.ErrorIs(t, err, ErrGenerationFailed)

	_, err = f.cache.Generate(ctx, "../etc")
	assert.ErrorIs(t, err, ErrInvalidID)

	stats, err := f.cache.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalThumbnails)
	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.CounterThumbnailsFailed))
}

func TestPath_NoURLsReturnsError(t *testing.T) {
	f := newFixture(t, staticURLs{}, &fakeFetcher{})

	path, err := f.cache.Path(context.Background(), "999")
	assert.Empty(t, path)
	assert.ErrorIs(t, err, ErrNoCandidateURLs)
}

func TestPath_CachedStaleAndMissing(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string][]byte{goodURL: testGIF(t, 32, 32)}}
	f := newFixture(t, staticURLs{"204": {goodURL}}, fetcher)
	ctx := context.Background()

	path, err := f.cache.Path(ctx, "204")
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetcher.calls.Load())

	// fresh hit
	f.clock.Advance(29 * 24 * time.Hour)
	again, err := f.cache.Path(ctx, "204")
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, int32(1), fetcher.calls.Load())

	// stale
	f.clock.Advance(2 * 24 * time.Hour)
	_, err = f.cache.Path(ctx, "204")
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetcher.calls.Load())

	// file gone
	require.NoError(t, os.Remove(path))
	_, err = f.cache.Path(ctx, "204")
	require.NoError(t, err)
	assert.Equal(t, int32(3), fetcher.calls.Load())
	assert.FileExists(t, path)
}

func TestPath_ConcurrentCallsCoalesce(t *testing.T) {
	gate := make(chan struct{})
	fetcher := &fakeFetcher{bodies: map[string][]byte{goodURL: testGIF(t, 32, 32)}, gate: gate}
	f := newFixture(t, staticURLs{"204": {goodURL}}, fetcher)
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	paths := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			paths[i], errs[i] = f.cache.Path(ctx, "204")
		}()
	}

	require.Eventually(t, func() bool { return fetcher.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, paths[0], paths[i])
	}
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestBatchGenerate_Progress(t *testing.T) {
	body := testGIF(t, 16, 16)
	fetcher := &fakeFetcher{bodies: map[string][]byte{}, delay: 5 * time.Millisecond}
	urls := staticURLs{}
	ids := []string{"1", "2", "3", "4", "5", "6", "7"}
	for _, id := range ids {
		u := "https://assets.test/" + id + ".gif"
		urls[id] = []string{u}
		if id != "3" && id != "6" {
			fetcher.bodies[u] = body
		}
	}
	f := newFixture(t, urls, fetcher)

	var (
		mu      sync.Mutex
		current []int
		seen    = map[string]bool{}
	)
	res, err := f.cache.BatchGenerate(context.Background(), ids, func(c, total int, id string) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, len(ids), total)
		current = append(current, c)
		seen[id] = true
	})
	require.NoError(t, err)

	require.Len(t, current, len(ids))
	for i, c := range current {
		assert.Equal(t, i+1, c)
	}
	assert.Len(t, seen, len(ids))
	assert.Equal(t, 5, res.Generated)
	assert.ElementsMatch(t, []string{"3", "6"}, res.Failed)
	assert.LessOrEqual(t, fetcher.maxSeen.Load(), int32(DefaultBatchSize))

	stats, err := f.cache.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalThumbnails)
}

func TestBatchGenerate_Empty(t *testing.T) {
	f := newFixture(t, staticURLs{}, &fakeFetcher{})
	calls := 0
	res, err := f.cache.BatchGenerate(context.Background(), nil, func(int, int, string) { calls++ })
	require.NoError(t, err)
	assert.Zero(t, calls)
	assert.Zero(t, res.Total)
}

func TestBatchGenerate_Cancelled(t *testing.T) {
	f := newFixture(t, staticURLs{}, &fakeFetcher{})
	f.cache.opts.BatchDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := f.cache.BatchGenerate(ctx, []string{"1", "2", "3", "4"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, res.Failed, 3)
}

func TestClearOld(t *testing.T) {
	body := testGIF(t, 16, 16)
	fetcher := &fakeFetcher{bodies: map[string][]byte{"u1": body, "u2": body}}
	f := newFixture(t, staticURLs{"1": {"u1"}, "2": {"u2"}}, fetcher)
	ctx := context.Background()

	oldPath, err := f.cache.Generate(ctx, "1")
	require.NoError(t, err)
	f.clock.Advance(20 * 24 * time.Hour)
	newPath, err := f.cache.Generate(ctx, "2")
	require.NoError(t, err)
	f.clock.Advance(11 * 24 * time.Hour)

	n, err := f.cache.ClearOld(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, newPath)

	entries, err := f.cache.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Contains(t, entries, "2")

	n, err = f.cache.ClearOld(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClearAll(t *testing.T) {
	body := testGIF(t, 16, 16)
	fetcher := &fakeFetcher{bodies: map[string][]byte{"u1": body, "u2": body}}
	f := newFixture(t, staticURLs{"1": {"u1"}, "2": {"u2"}}, fetcher)
	ctx := context.Background()

	_, err := f.cache.BatchGenerate(ctx, []string{"1", "2"}, nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(f.cache.Dir(), "stray.jpg"), []byte("x"), 0o644))

	require.NoError(t, f.cache.ClearAll(ctx))
	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.CounterThumbnailsCleared))

	files, err := os.ReadDir(f.cache.Dir())
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = f.store.Get(ctx, repository.KeyThumbnailIndex)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	stats, err := f.cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThumbnailStats{}, stats)
}

func TestStats(t *testing.T) {
	body := testGIF(t, 16, 16)
	fetcher := &fakeFetcher{bodies: map[string][]byte{"u1": body, "u2": body}}
	f := newFixture(t, staticURLs{"1": {"u1"}, "2": {"u2"}}, fetcher)
	ctx := context.Background()

	first := f.clock.Now().UnixMilli()
	_, err := f.cache.Generate(ctx, "1")
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.cache.Generate(ctx, "2")
	require.NoError(t, err)

	stats, err := f.cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalThumbnails)
	assert.Equal(t, first, stats.OldestTimestamp)
	assert.Equal(t, first+time.Hour.Milliseconds(), stats.NewestTimestamp)
	assert.Positive(t, stats.TotalSize)
}

func TestIndex_SurvivesRestart(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string][]byte{goodURL: testGIF(t, 16, 16)}}
	f := newFixture(t, staticURLs{"204": {goodURL}}, fetcher)
	ctx := context.Background()

	path, err := f.cache.Generate(ctx, "204")
	require.NoError(t, err)

	reopened, err := NewCache(DefaultOptions(f.dir), f.store, staticURLs{}, fetcher, nil)
	require.NoError(t, err)
	defer reopened.Close()
	reopened.now = f.clock.Now

	got, err := reopened.Path(ctx, "204")
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestIndex_CorruptStartsEmpty(t *testing.T) {
	f := newFixture(t, staticURLs{}, &fakeFetcher{})
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, "corrupt-index", []byte("{{{")))

	opts := DefaultOptions(f.dir)
	opts.IndexKey = "corrupt-index"
	c, err := NewCache(opts, f.store, staticURLs{}, &fakeFetcher{}, nil)
	require.NoError(t, err)
	defer c.Close()

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalThumbnails)
}

func TestIndex_ClosedCache(t *testing.T) {
	f := newFixture(t, staticURLs{}, &fakeFetcher{})
	f.cache.Close()

	_, err := f.cache.Stats(context.Background())
	assert.True(t, errors.Is(err, ErrIndexClosed))
}

type recordingUploader struct {
	mu      sync.Mutex
	puts    map[string][]byte
	deletes []string
}

func (r *recordingUploader) PutObject(_ context.Context, key, _ string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puts[key] = body
	return nil
}
func (r *recordingUploader) ObjectExists(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.puts[key]
	return ok, nil
}
func (r *recordingUploader) ListKeys(context.Context, string) ([]string, error) { return nil, nil }
func (r *recordingUploader) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.example.com/" + key + "?sig=x", nil
}
func (r *recordingUploader) DeleteObject(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, key)
	return nil
}

func TestGenerate_Uploads(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string][]byte{goodURL: testGIF(t, 16, 16)}}
	f := newFixture(t, staticURLs{"204": {goodURL}}, fetcher)
	up := &recordingUploader{puts: map[string][]byte{}}
	f.cache.SetUploader(up, "thumbnails/")

	path, err := f.cache.Generate(context.Background(), "204")
	require.NoError(t, err)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, onDisk, up.puts["thumbnails/204.jpg"])
}

func TestHTTPFetcher(t *testing.T) {
	body := testGIF(t, 8, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/exercise-gifs/back/46.gif" {
			http.NotFound(w, r)
			return
		}
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "image/gif")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(time.Second)
	defer f.httpClient.CloseIdleConnections()

	got, err := f.Fetch(context.Background(), srv.URL+"/exercise-gifs/back/46.gif")
	require.NoError(t, err)
	assert.Equal(t, body, got)

	_, err = f.Fetch(context.Background(), srv.URL+"/exercise-gifs/back/missing.gif")
	assert.ErrorContains(t, err, "404")
}

func TestRemoteURL(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string][]byte{goodURL: testGIF(t, 16, 16)}}
	f := newFixture(t, staticURLs{"204": {goodURL}}, fetcher)
	ctx := context.Background()

	_, err := f.cache.RemoteURL(ctx, "204", time.Minute)
	assert.ErrorIs(t, err, ErrNoUploader)

	up := &recordingUploader{puts: map[string][]byte{}}
	f.cache.SetUploader(up, "thumbnails/")
	u, err := f.cache.RemoteURL(ctx, "204", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example.com/thumbnails/204.jpg?sig=x", u)
	assert.Contains(t, up.puts, "thumbnails/204.jpg")
}

func TestRemoteURL_UploadsMissingCopy(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string][]byte{goodURL: testGIF(t, 16, 16)}}
	f := newFixture(t, staticURLs{"204": {goodURL}}, fetcher)
	ctx := context.Background()

	path, err := f.cache.Generate(ctx, "204")
	require.NoError(t, err)

	up := &recordingUploader{puts: map[string][]byte{}}
	f.cache.SetUploader(up, "thumbnails/")
	_, err = f.cache.RemoteURL(ctx, "204", time.Minute)
	require.NoError(t, err)

	local, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, local, up.puts["thumbnails/204.jpg"])
	assert.EqualValues(t, 1, fetcher.calls.Load())
}

func TestClearOld_DeletesRemoteCopies(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string][]byte{goodURL: testGIF(t, 16, 16)}}
	f := newFixture(t, staticURLs{"204": {goodURL}}, fetcher)
	up := &recordingUploader{puts: map[string][]byte{}}
	f.cache.SetUploader(up, "thumbnails/")
	ctx := context.Background()

	_, err := f.cache.Generate(ctx, "204")
	require.NoError(t, err)
	f.clock.Advance(DefaultMaxAge + time.Hour)

	cleared, err := f.cache.ClearOld(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cleared)
	assert.Equal(t, []string{"thumbnails/204.jpg"}, up.deletes)
}
