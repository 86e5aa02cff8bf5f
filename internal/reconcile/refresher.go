package reconcile

import (
	"context"
	"sync"

	"github.com/wardrobe-mods/wardrobe/internal/logging"
	"github.com/wardrobe-mods/wardrobe/internal/store"
)

// Fetcher loads one collection from the daemon and writes it into the
// store. It must check its context before the store write so a
// cancelled refresh never installs a stale result.
type Fetcher func(ctx context.Context) error

type refreshOp struct {
	cancel context.CancelFunc
}

// Refresher runs background collection refreshes, at most one per key.
// Kicking a key cancels the previous refresh for that key first, so a
// burst of mutations produces one trailing fetch rather than a pile.
type Refresher struct {
	mu       sync.Mutex
	fetchers map[store.Key]Fetcher
	inflight map[store.Key]*refreshOp
	closed   bool
	wg       sync.WaitGroup
	log      *logging.Logger
}

// NewRefresher creates a refresher with no registered fetchers.
func NewRefresher(log *logging.Logger) *Refresher {
	return &Refresher{
		fetchers: make(map[store.Key]Fetcher),
		inflight: make(map[store.Key]*refreshOp),
		log:      log.Component("refresh"),
	}
}

// Register installs the fetcher for key, replacing any previous one.
func (r *Refresher) Register(key store.Key, fn Fetcher) {
	r.mu.Lock()
	r.fetchers[key] = fn
	r.mu.Unlock()
}

// Cancel aborts the in-flight refresh for key, if any. Called before
// every optimistic patch: a refresh dispatched earlier must not land
// after the patch and overwrite it with pre-mutation state.
func (r *Refresher) Cancel(key store.Key) {
	r.mu.Lock()
	op, ok := r.inflight[key]
	if ok {
		delete(r.inflight, key)
	}
	r.mu.Unlock()
	if ok {
		op.cancel()
	}
}

// Kick schedules a background refresh for key, cancelling any refresh
// already running for it. Errors are logged and dropped; the refresh is
// advisory and the next mutation will kick another.
func (r *Refresher) Kick(key store.Key) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	fn, ok := r.fetchers[key]
	if !ok {
		r.mu.Unlock()
		return
	}
	if prev, running := r.inflight[key]; running {
		prev.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	op := &refreshOp{cancel: cancel}
	r.inflight[key] = op
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer cancel()
		err := fn(ctx)

		r.mu.Lock()
		if r.inflight[key] == op {
			delete(r.inflight, key)
		}
		r.mu.Unlock()

		if err != nil && ctx.Err() == nil {
			r.log.Debug().Err(err).Str("key", string(key)).Msg("background refresh failed")
		}
	}()
}

// Close cancels every in-flight refresh and waits for the goroutines to
// finish. Further kicks are ignored.
func (r *Refresher) Close() {
	r.mu.Lock()
	r.closed = true
	for key, op := range r.inflight {
		delete(r.inflight, key)
		op.cancel()
	}
	r.mu.Unlock()
	r.wg.Wait()
}

// Wait blocks until currently running refreshes finish. Tests use it to
// observe post-mutation reconciliation deterministically.
func (r *Refresher) Wait() {
	r.wg.Wait()
}
