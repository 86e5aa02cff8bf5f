package reconcile

import (
	"context"

	"github.com/wardrobe-mods/wardrobe/internal/logging"
	"github.com/wardrobe-mods/wardrobe/internal/store"
)

// State tracks where one mutation sits in its lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateMutating   State = "mutating"
	StateSettled    State = "settled"
	StateRolledBack State = "rolled_back"
)

// mutation carries the lifecycle of one optimistic operation, logging
// each transition.
type mutation struct {
	kind  string
	key   store.Key
	state State
	log   *logging.Logger
}

func (c *Coordinator) begin(kind string, key store.Key) *mutation {
	m := &mutation{kind: kind, key: key, state: StateIdle, log: c.log}
	m.transition(StateMutating)
	return m
}

func (m *mutation) transition(to State) {
	m.log.Debug().
		Str("mutation", m.kind).
		Str("key", string(m.key)).
		Str("from", string(m.state)).
		Str("to", string(to)).
		Msg("mutation state")
	m.state = to
}

func (m *mutation) settled() {
	m.transition(StateSettled)
}

func (m *mutation) rolledBack(err error) {
	m.log.Warn().Err(err).Str("mutation", m.kind).Msg("mutation failed, snapshot restored")
	m.transition(StateRolledBack)
}

// runOptimistic executes the full mutation protocol against one cell:
//
//  1. cancel the in-flight refresh for the cell's key
//  2. snapshot the current value
//  3. apply speculate, making the guess visible immediately
//  4. run invoke (the daemon roundtrip)
//  5. on success, apply the canonicalizer invoke returned, installing
//     the daemon's confirmed value over the guess
//  6. on failure, write the snapshot back verbatim and return the error
//  7. either way, kick a background refresh of the key
//
// speculate and the canonicalizer must be pure; they receive copies and
// return the value to store.
func runOptimistic[T any](
	ctx context.Context,
	c *Coordinator,
	kind string,
	key store.Key,
	cell *store.Cell[T],
	speculate func(T) T,
	invoke func(ctx context.Context) (func(T) T, error),
) error {
	m := c.begin(kind, key)
	c.refresher.Cancel(key)
	defer c.refresher.Kick(key)

	snapshot, _ := cell.Read()
	cell.Patch(speculate)

	canonicalize, err := invoke(ctx)
	if err != nil {
		cell.Write(snapshot)
		m.rolledBack(err)
		return err
	}
	if canonicalize != nil {
		cell.Patch(canonicalize)
	}
	m.settled()
	return nil
}
