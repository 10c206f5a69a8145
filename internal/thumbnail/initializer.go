package thumbnail

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var ErrInitInProgress = errors.New("thumbnail initialization already in progress")

// skipRatio is the cached share of the catalog above which Initialize does nothing.
const skipRatio = 0.8

// IDSource lists every exercise that should have a thumbnail.
type IDSource interface {
	IDs() []string
}

// Initializer warms the cache for the whole catalog.
type Initializer struct {
	cache   *Cache
	catalog IDSource

	running  atomic.Bool
	mu       sync.RWMutex
	progress float64
}

func NewInitializer(cache *Cache, catalog IDSource) *Initializer {
	return &Initializer{cache: cache, catalog: catalog}
}

// Initialize generates thumbnails for the whole catalog unless most of them
// already exist. Only one run may be active at a time.
func (i *Initializer) Initialize(ctx context.Context) error {
	if !i.running.CompareAndSwap(false, true) {
		return ErrInitInProgress
	}
	defer i.running.Store(false)
	i.setProgress(0)

	ids := i.catalog.IDs()
	stats, err := i.cache.Stats(ctx)
	if err != nil {
		return err
	}
	log.Infof("thumbnail cache: %d/%d exercises", stats.TotalThumbnails, len(ids))

	if float64(stats.TotalThumbnails) >= float64(len(ids))*skipRatio {
		log.Info("most thumbnails already exist, skipping batch generation")
		i.setProgress(100)
		return nil
	}

	res, err := i.cache.BatchGenerate(ctx, ids, func(current, total int, _ string) {
		i.setProgress(float64(current) / float64(total) * 100)
		if current%10 == 0 || current == total {
			log.Infof("thumbnail progress: %d/%d (%d%%)", current, total, int(math.Round(i.Progress())))
		}
	})
	if err != nil {
		return err
	}

	final, err := i.cache.Stats(ctx)
	if err == nil {
		log.Infof("thumbnail initialization complete: %d generated, %d failed, cache holds %d thumbnails, %.2fMB",
			res.Generated, len(res.Failed), final.TotalThumbnails, float64(final.TotalSize)/(1024*1024))
	}
	return nil
}

// Progress is the completion of the current or last run, 0 to 100.
func (i *Initializer) Progress() float64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.progress
}

func (i *Initializer) setProgress(p float64) {
	i.mu.Lock()
	i.progress = p
	i.mu.Unlock()
}

func (i *Initializer) InProgress() bool {
	return i.running.Load()
}

// Prioritize generates thumbnails for ids right away, independent of any
// running initialization.
func (i *Initializer) Prioritize(ctx context.Context, ids []string) (BatchResult, error) {
	if len(ids) == 0 {
		return BatchResult{}, nil
	}
	log.Infof("prioritizing thumbnails for %d exercises", len(ids))
	return i.cache.BatchGenerate(ctx, ids, func(current, total int, id string) {
		log.Debugf("priority thumbnail: %d/%d - %s", current, total, id)
	})
}

// CleanupAndReinitialize drops stale thumbnails and, if any were removed,
// runs Initialize again.
func (i *Initializer) CleanupAndReinitialize(ctx context.Context) (int, error) {
	cleared, err := i.cache.ClearOld(ctx)
	if err != nil {
		log.Errorf("thumbnail cleanup: %s", err)
	}
	if cleared == 0 {
		return 0, err
	}
	log.Infof("cleared %d old thumbnails, reinitializing", cleared)
	return cleared, multierr.Append(err, i.Initialize(ctx))
}
