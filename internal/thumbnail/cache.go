// Package thumbnail maintains the on-disk cache of small JPEG previews
// generated from the remote exercise GIFs.
package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"alcyxob/fitprogram/internal/domain"
	"alcyxob/fitprogram/internal/metrics"
	"alcyxob/fitprogram/internal/repository"
	"alcyxob/fitprogram/internal/storage"
)

const (
	DefaultSize       = 120
	DefaultQuality    = 80
	DefaultMaxAge     = 30 * 24 * time.Hour
	DefaultBatchSize  = 3
	DefaultBatchDelay = 100 * time.Millisecond

	subdir = "thumbnails"
)

var (
	ErrNoCandidateURLs  = errors.New("no candidate urls for exercise")
	ErrGenerationFailed = errors.New("thumbnail generation failed")
	ErrInvalidID        = errors.New("invalid exercise id")
	ErrNoUploader       = errors.New("thumbnail object storage not configured")
)

type Options struct {
	Dir        string // thumbnails live in Dir/thumbnails
	Size       int
	Quality    int
	MaxAge     time.Duration
	BatchSize  int
	BatchDelay time.Duration
	IndexKey   string
}

func DefaultOptions(dir string) Options {
	return Options{
		Dir:        dir,
		Size:       DefaultSize,
		Quality:    DefaultQuality,
		MaxAge:     DefaultMaxAge,
		BatchSize:  DefaultBatchSize,
		BatchDelay: DefaultBatchDelay,
		IndexKey:   repository.KeyThumbnailIndex,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions(o.Dir)
	if o.Size > 0 {
		d.Size = o.Size
	}
	if o.Quality > 0 {
		d.Quality = o.Quality
	}
	if o.MaxAge > 0 {
		d.MaxAge = o.MaxAge
	}
	if o.BatchSize > 0 {
		d.BatchSize = o.BatchSize
	}
	if o.BatchDelay > 0 {
		d.BatchDelay = o.BatchDelay
	}
	if o.IndexKey != "" {
		d.IndexKey = o.IndexKey
	}
	return d
}

// URLSource lists candidate asset URLs for an exercise, best first.
type URLSource interface {
	Candidates(exerciseID string) []string
}

// ProgressFunc is called once per processed identifier with a strictly
// increasing current count.
type ProgressFunc func(current, total int, exerciseID string)

// BatchResult summarizes a BatchGenerate run.
type BatchResult struct {
	Total     int      `json:"total"`
	Generated int      `json:"generated"`
	Failed    []string `json:"failed,omitempty"`
}

type Cache struct {
	opts    Options
	dir     string
	urls    URLSource
	fetcher Fetcher
	index   *indexActor
	group   singleflight.Group
	metrics *metrics.Manager
	now     func() time.Time

	uploader     storage.FileStorage
	uploadPrefix string
}

// NewCache creates the thumbnail directory and starts the index actor.
// metrics may be nil. Call Close when done.
func NewCache(opts Options, store repository.KVStore, urls URLSource, fetcher Fetcher, m *metrics.Manager) (*Cache, error) {
	opts = opts.withDefaults()
	dir := filepath.Join(opts.Dir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create thumbnail dir: %w", err)
	}

	c := &Cache{
		opts:    opts,
		dir:     dir,
		urls:    urls,
		fetcher: fetcher,
		metrics: m,
		now:     time.Now,
	}
	var onChange func(int)
	if m != nil {
		onChange = func(n int) { m.GaugeThumbnailsCache.Set(float64(n)) }
	}
	c.index = newIndexActor(store, opts.IndexKey, onChange)
	return c, nil
}

// SetUploader mirrors every generated thumbnail to object storage under prefix.
func (c *Cache) SetUploader(uploader storage.FileStorage, prefix string) {
	c.uploader = uploader
	c.uploadPrefix = prefix
}

// Close stops the index actor.
func (c *Cache) Close() {
	c.index.close()
}

func (c *Cache) Dir() string {
	return c.dir
}

// FilePath is where the thumbnail for id is written.
func (c *Cache) FilePath(id string) string {
	return filepath.Join(c.dir, id+".jpg")
}

func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

// Path returns the cached thumbnail for id, generating it when the entry
// is missing, stale, or its file is gone.
func (c *Cache) Path(ctx context.Context, id string) (string, error) {
	if !validID(id) {
		return "", ErrInvalidID
	}
	entry, found, err := c.index.get(ctx, id)
	if err != nil {
		return "", err
	}
	if found && c.fresh(entry) {
		return entry.LocalPath, nil
	}
	return c.Generate(ctx, id)
}

func (c *Cache) fresh(e domain.ThumbnailEntry) bool {
	if e.Age(c.now()) >= c.opts.MaxAge {
		return false
	}
	_, err := os.Stat(e.LocalPath)
	return err == nil
}

// Generate fetches the first working candidate URL for id and writes a
// fresh thumbnail. Concurrent calls for the same id share one generation.
func (c *Cache) Generate(ctx context.Context, id string) (string, error) {
	if !validID(id) {
		return "", ErrInvalidID
	}
	// detached so one caller giving up does not fail the others
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(id, func() (any, error) {
		return c.generate(shared, id)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Cache) generate(ctx context.Context, id string) (string, error) {
	logger := log.WithField("exercise_id", id)
	started := c.now()

	urls := c.urls.Candidates(id)
	if len(urls) == 0 {
		logger.Info("no GIF URLs for exercise")
		c.countFailure()
		return "", fmt.Errorf("%w: %s", ErrNoCandidateURLs, id)
	}

	var attempts error
	for _, u := range urls {
		data, err := c.fetcher.Fetch(ctx, u)
		if err != nil {
			attempts = multierr.Append(attempts, fmt.Errorf("%s: %w", u, err))
			continue
		}
		jpg, err := Render(data, c.opts.Size, c.opts.Quality)
		if err != nil {
			attempts = multierr.Append(attempts, fmt.Errorf("%s: decode: %w", u, err))
			continue
		}

		path := c.FilePath(id)
		if err := writeFileAtomic(c.dir, path, jpg); err != nil {
			// disk errors will not go away with another URL
			c.countFailure()
			return "", fmt.Errorf("%w: %s: %w", ErrGenerationFailed, id, err)
		}

		entry := domain.ThumbnailEntry{
			LocalPath: path,
			Timestamp: c.now().UnixMilli(),
			Size:      int64(len(jpg)),
		}
		if err := c.index.put(ctx, id, entry); err != nil {
			logger.Errorf("failed to save thumbnail cache entry: %s", err)
		}

		c.upload(ctx, id, jpg)
		if c.metrics != nil {
			c.metrics.CounterThumbnailsGenerated.Inc()
			c.metrics.HistThumbnailDuration.Observe(c.now().Sub(started).Seconds())
		}
		logger.WithField("url", u).Debugf("generated thumbnail %s", path)
		return path, nil
	}

	logger.Warnf("all %d candidate urls failed: %s", len(urls), attempts)
	c.countFailure()
	return "", fmt.Errorf("%w: %s: %w", ErrGenerationFailed, id, attempts)
}

func (c *Cache) countFailure() {
	if c.metrics != nil {
		c.metrics.CounterThumbnailsFailed.Inc()
	}
}

func (c *Cache) upload(ctx context.Context, id string, jpg []byte) {
	if c.uploader == nil {
		return
	}
	key := c.objectKey(id)
	if err := c.uploader.PutObject(ctx, key, "image/jpeg", jpg); err != nil {
		log.WithField("exercise_id", id).Errorf("failed to upload thumbnail to %s: %s", key, err)
	}
}

func (c *Cache) objectKey(id string) string {
	return c.uploadPrefix + id + ".jpg"
}

// RemoteURL returns a time-limited download URL for the uploaded copy of
// id's thumbnail, generating and uploading it first if needed.
func (c *Cache) RemoteURL(ctx context.Context, id string, expires time.Duration) (string, error) {
	if c.uploader == nil {
		return "", ErrNoUploader
	}
	path, err := c.Path(ctx, id)
	if err != nil {
		return "", err
	}
	key := c.objectKey(id)
	exists, err := c.uploader.ObjectExists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("check remote thumbnail %s: %w", key, err)
	}
	if !exists {
		// generated before the uploader was configured, or the upload failed
		jpg, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read thumbnail %s: %w", id, err)
		}
		if err := c.uploader.PutObject(ctx, key, "image/jpeg", jpg); err != nil {
			return "", fmt.Errorf("upload thumbnail %s: %w", key, err)
		}
	}
	return c.uploader.GeneratePresignedDownloadURL(ctx, key, expires)
}

// BatchGenerate generates thumbnails BatchSize at a time with a fixed pause
// between batches. Individual failures never stop the run. onProgress, if
// set, fires once per id in completion order. Cancelling ctx stops before
// the next batch.
func (c *Cache) BatchGenerate(ctx context.Context, ids []string, onProgress ProgressFunc) (BatchResult, error) {
	res := BatchResult{Total: len(ids)}
	log.Infof("thumbnail: starting batch generation for %d exercises", len(ids))

	var (
		mu        sync.Mutex
		completed int
	)
	for start := 0; start < len(ids); start += c.opts.BatchSize {
		if start > 0 {
			timer := time.NewTimer(c.opts.BatchDelay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return res, ctx.Err()
			}
		}

		end := min(start+c.opts.BatchSize, len(ids))
		var g errgroup.Group
		for _, id := range ids[start:end] {
			id := id
			g.Go(func() error {
				_, err := c.Generate(ctx, id)

				mu.Lock()
				defer mu.Unlock()
				completed++
				if err != nil {
					res.Failed = append(res.Failed, id)
				} else {
					res.Generated++
				}
				if onProgress != nil {
					onProgress(completed, len(ids), id)
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	log.Infof("thumbnail: batch generation complete, %d/%d generated", res.Generated, res.Total)
	return res, nil
}

// ClearOld removes entries older than MaxAge together with their files. An
// entry whose file cannot be removed stays in the index.
func (c *Cache) ClearOld(ctx context.Context) (int, error) {
	now := c.now()
	var (
		removed []string
		errs    error
	)
	err := c.index.do(ctx, func(idx domain.ThumbnailIndex) bool {
		for id, e := range idx {
			if e.Age(now) <= c.opts.MaxAge {
				continue
			}
			if err := os.Remove(e.LocalPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = multierr.Append(errs, fmt.Errorf("remove %s: %w", e.LocalPath, err))
				continue
			}
			delete(idx, id)
			removed = append(removed, id)
		}
		return len(removed) > 0
	})
	errs = multierr.Append(errs, err)
	cleared := len(removed)

	// remote copies are best effort; the local cache is the source of truth
	if c.uploader != nil {
		for _, id := range removed {
			if err := c.uploader.DeleteObject(ctx, c.objectKey(id)); err != nil {
				log.WithField("exercise_id", id).Warnf("failed to delete remote thumbnail: %s", err)
			}
		}
	}

	if cleared > 0 {
		log.Infof("thumbnail: cleared %d old thumbnails", cleared)
		if c.metrics != nil {
			c.metrics.CounterThumbnailsCleared.Add(float64(cleared))
		}
	}
	return cleared, errs
}

// ClearAll removes the thumbnail directory and the whole index, then
// recreates the empty directory.
func (c *Cache) ClearAll(ctx context.Context) error {
	cleared, err := c.index.clear(ctx)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.CounterThumbnailsCleared.Add(float64(cleared))
	}
	log.Info("thumbnail: cleared all thumbnails")
	return nil
}

// Stats summarizes the index. An empty cache reports zeros.
func (c *Cache) Stats(ctx context.Context) (domain.ThumbnailStats, error) {
	idx, err := c.index.snapshot(ctx)
	if err != nil {
		return domain.ThumbnailStats{}, err
	}
	var stats domain.ThumbnailStats
	for _, e := range idx {
		if stats.TotalThumbnails == 0 || e.Timestamp < stats.OldestTimestamp {
			stats.OldestTimestamp = e.Timestamp
		}
		if e.Timestamp > stats.NewestTimestamp {
			stats.NewestTimestamp = e.Timestamp
		}
		stats.TotalThumbnails++
		stats.TotalSize += e.Size
	}
	return stats, nil
}

// Entries returns a copy of the index.
func (c *Cache) Entries(ctx context.Context) (domain.ThumbnailIndex, error) {
	return c.index.snapshot(ctx)
}

func writeFileAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".thumb-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
