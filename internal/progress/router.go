// Package progress routes daemon push events to their consumers and
// renders them in the terminal.
//
// Each operation kind has at most one consumer at a time, and delivery
// conflates: when the consumer lags, a newer update replaces the queued
// one instead of piling up, so the receiver always sees the newest
// state. Updates arriving with no consumer, or after the operation they
// describe settled, are dropped.
package progress

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/wardrobe-mods/wardrobe/internal/apperr"
)

// Kind names one operation family with its own progress stream.
type Kind string

const (
	KindInstall Kind = "install"
	KindBuild   Kind = "build"
	KindFetch   Kind = "fetch"
)

var (
	// ErrKindClaimed indicates the kind already has a consumer.
	ErrKindClaimed = errors.New("progress kind already has a consumer")
	// ErrRouterClosed indicates the router is shut down.
	ErrRouterClosed = errors.New("progress router is closed")
)

// Update is one progress report. OperationID ties it back to the
// request that started the work, since reports are fire-and-forget and
// may interleave across a batch.
type Update struct {
	Kind        Kind          `json:"kind"`
	OperationID string        `json:"operationId"`
	Stage       string        `json:"stage"`
	Fraction    float64       `json:"fraction"`
	Message     string        `json:"message,omitempty"`
	Done        bool          `json:"done"`
	Err         *apperr.Error `json:"error,omitempty"`
}

// Router fans daemon events out to per-kind consumers.
type Router struct {
	mu        sync.Mutex
	consumers map[Kind]chan Update
	closed    bool
	conflated atomic.Int64
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{consumers: make(map[Kind]chan Update)}
}

// Listen claims the stream for kind. The returned channel carries at
// most the newest undelivered update; cancel releases the claim and
// closes the channel. A second Listen while the claim is held fails
// with ErrKindClaimed.
func (r *Router) Listen(kind Kind) (<-chan Update, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, nil, ErrRouterClosed
	}
	if _, taken := r.consumers[kind]; taken {
		return nil, nil, ErrKindClaimed
	}

	ch := make(chan Update, 1)
	r.consumers[kind] = ch

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if cur, ok := r.consumers[kind]; ok && cur == ch {
			delete(r.consumers, kind)
			close(ch)
		}
	}
	return ch, cancel, nil
}

// Deliver routes u to the consumer of its kind. Never blocks: a queued
// update the consumer has not taken yet is replaced by the newer one.
func (r *Router) Deliver(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	ch, ok := r.consumers[u.Kind]
	if !ok {
		return
	}

	select {
	case <-ch:
		r.conflated.Add(1)
	default:
	}
	select {
	case ch <- u:
	default:
	}
}

// Conflated returns how many updates were superseded before their
// consumer took them.
func (r *Router) Conflated() int64 {
	return r.conflated.Load()
}

// Close shuts the router down and closes all consumer channels.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	for kind, ch := range r.consumers {
		delete(r.consumers, kind)
		close(ch)
	}
}
