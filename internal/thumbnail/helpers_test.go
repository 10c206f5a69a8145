package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"alcyxob/fitprogram/internal/metrics"
	"alcyxob/fitprogram/internal/repository"
	"alcyxob/fitprogram/internal/repository/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// testGIF builds a w x h two-colour GIF.
func testGIF(t *testing.T, w, h int) []byte {
	t.Helper()
	palette := color.Palette{color.Black, color.RGBA{R: 200, G: 30, B: 30, A: 255}}
	img := image.NewPaletted(image.Rect(0, 0, w, h), palette)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetColorIndex(x, y, uint8((x/10+y/10)%2))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, &gif.GIF{Image: []*image.Paletted{img}, Delay: []int{10}}))
	return buf.Bytes()
}

// fakeFetcher serves fixed bodies by URL; anything else is a 404.
type fakeFetcher struct {
	bodies map[string][]byte
	delay  time.Duration
	gate   chan struct{} // if set, every fetch waits for it to close

	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

var errNotFound = errors.New("HTTP 404")

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxSeen.Load()
		if n <= m || f.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if body, ok := f.bodies[url]; ok {
		return body, nil
	}
	return nil, errNotFound
}

// staticURLs maps ids to candidate URLs.
type staticURLs map[string][]string

func (s staticURLs) Candidates(id string) []string {
	return s[id]
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	cache   *Cache
	store   repository.KVStore
	fetcher *fakeFetcher
	clock   *testClock
	metrics *metrics.Manager
	dir     string
}

func newFixture(t *testing.T, urls staticURLs, fetcher *fakeFetcher) *fixture {
	t.Helper()
	dir := t.TempDir()
	store := memory.NewStore()
	m := metrics.NewTestManager()
	opts := DefaultOptions(dir)
	opts.BatchDelay = time.Millisecond

	c, err := NewCache(opts, store, urls, fetcher, m)
	require.NoError(t, err)
	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c.now = clock.Now
	t.Cleanup(c.Close)

	return &fixture{cache: c, store: store, fetcher: fetcher, clock: clock, metrics: m, dir: dir}
}
