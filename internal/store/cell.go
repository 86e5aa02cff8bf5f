// Package store holds the last-known-good local cache of mods,
// profiles and the active profile marker, with explicit subscriptions
// for observers and a best-effort disk snapshot for warm starts.
package store

import "sync"

// Cell holds one keyed piece of state behind a mutex. Every value
// crossing the cell boundary passes through the clone function, so a
// snapshot taken by a caller stays valid no matter what is written
// afterwards. Reads never fail; a cell that was never written reports
// loaded == false.
type Cell[T any] struct {
	mu     sync.RWMutex
	value  T
	loaded bool
	clone  func(T) T

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func(T)
}

// NewCell creates an empty cell. clone must produce a value that shares
// no mutable memory with its argument; pass an identity function for
// value types.
func NewCell[T any](clone func(T) T) *Cell[T] {
	return &Cell[T]{
		clone: clone,
		subs:  make(map[int]func(T)),
	}
}

// Read returns a copy of the current value and whether the cell has
// ever been written. It reflects the most recent Write or Patch,
// optimistic or confirmed.
func (c *Cell[T]) Read() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clone(c.value), c.loaded
}

// Write replaces the value. Used for confirmed results and for
// restoring snapshots.
func (c *Cell[T]) Write(v T) {
	c.mu.Lock()
	c.value = c.clone(v)
	c.loaded = true
	c.mu.Unlock()
	c.notify()
}

// Patch applies updater to a copy of the current value and stores the
// result. The updater must be pure and total: no error path exists, so
// rollback is always possible by writing the prior snapshot back.
func (c *Cell[T]) Patch(updater func(T) T) {
	c.mu.Lock()
	c.value = updater(c.clone(c.value))
	c.loaded = true
	c.mu.Unlock()
	c.notify()
}

// Subscribe registers fn to run after every Write or Patch with a copy
// of the new value. The returned cancel releases the subscription;
// callers own that lifetime. Callbacks run synchronously on the
// mutating goroutine, outside the cell lock, so they may Read but
// should return quickly.
func (c *Cell[T]) Subscribe(fn func(T)) (cancel func()) {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

func (c *Cell[T]) notify() {
	c.subMu.Lock()
	fns := make([]func(T), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		v, _ := c.Read()
		fn(v)
	}
}
