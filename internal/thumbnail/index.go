package thumbnail

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"alcyxob/fitprogram/internal/domain"
	"alcyxob/fitprogram/internal/repository"
)

var ErrIndexClosed = errors.New("thumbnail index closed")

// indexOp runs against the live index inside the actor goroutine. It
// returns true when it changed the index and the index must be persisted.
type indexOp func(idx domain.ThumbnailIndex) bool

type indexRequest struct {
	op   indexOp
	done chan error
}

// indexActor owns the thumbnail index. Every read and read-modify-write
// goes through its request channel, so mutations never interleave and no
// update is lost.
type indexActor struct {
	store    repository.KVStore
	key      string
	requests chan indexRequest
	quit     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	onChange func(n int)
}

func newIndexActor(store repository.KVStore, key string, onChange func(n int)) *indexActor {
	a := &indexActor{
		store:    store,
		key:      key,
		requests: make(chan indexRequest),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
		onChange: onChange,
	}
	go a.loop()
	return a
}

func (a *indexActor) loop() {
	defer close(a.stopped)

	idx := a.load()
	for {
		select {
		case <-a.quit:
			return
		case req := <-a.requests:
			var err error
			if req.op(idx) {
				err = a.persist(idx)
			}
			req.done <- err
		}
	}
}

// load reads the stored index. A missing or unreadable index starts empty.
func (a *indexActor) load() domain.ThumbnailIndex {
	idx := domain.ThumbnailIndex{}
	err := repository.GetJSON(context.Background(), a.store, a.key, &idx)
	if err != nil && !repository.IsNotFound(err) {
		log.Errorf("thumbnail: failed to load cache index: %s", err)
		idx = domain.ThumbnailIndex{}
	}
	if idx == nil {
		idx = domain.ThumbnailIndex{}
	}
	a.notify(idx)
	return idx
}

func (a *indexActor) persist(idx domain.ThumbnailIndex) error {
	a.notify(idx)
	if len(idx) == 0 {
		return a.store.Delete(context.Background(), a.key)
	}
	return repository.SetJSON(context.Background(), a.store, a.key, idx)
}

func (a *indexActor) notify(idx domain.ThumbnailIndex) {
	if a.onChange != nil {
		a.onChange(len(idx))
	}
}

// do submits op and waits for it to run. The op itself is never abandoned
// half way: once accepted it completes even if ctx is cancelled.
func (a *indexActor) do(ctx context.Context, op indexOp) error {
	req := indexRequest{op: op, done: make(chan error, 1)}
	select {
	case a.requests <- req:
	case <-a.stopped:
		return ErrIndexClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-req.done
}

func (a *indexActor) get(ctx context.Context, id string) (domain.ThumbnailEntry, bool, error) {
	var (
		entry domain.ThumbnailEntry
		found bool
	)
	err := a.do(ctx, func(idx domain.ThumbnailIndex) bool {
		entry, found = idx[id]
		return false
	})
	return entry, found, err
}

func (a *indexActor) put(ctx context.Context, id string, entry domain.ThumbnailEntry) error {
	return a.do(ctx, func(idx domain.ThumbnailIndex) bool {
		idx[id] = entry
		return true
	})
}

// clear empties the index and returns how many entries it held.
func (a *indexActor) clear(ctx context.Context) (int, error) {
	var n int
	err := a.do(ctx, func(idx domain.ThumbnailIndex) bool {
		n = len(idx)
		clear(idx)
		return true
	})
	return n, err
}

func (a *indexActor) snapshot(ctx context.Context) (domain.ThumbnailIndex, error) {
	out := domain.ThumbnailIndex{}
	err := a.do(ctx, func(idx domain.ThumbnailIndex) bool {
		for id, e := range idx {
			out[id] = e
		}
		return false
	})
	return out, err
}

func (a *indexActor) close() {
	a.stopOnce.Do(func() { close(a.quit) })
	<-a.stopped
}
