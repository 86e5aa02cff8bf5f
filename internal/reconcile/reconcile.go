// Package reconcile keeps the local store consistent with the daemon
// through optimistic mutations.
//
// Every mutation follows one protocol: cancel the in-flight refresh for
// the affected collection, snapshot it, apply the speculative change so
// readers see it before the daemon answers, invoke the command, then
// either canonicalize on the daemon's confirmed value or restore the
// snapshot verbatim. Win or lose, a background refresh of the
// collection is scheduled afterwards to settle races with other actors
// (a second window, the daemon's own bookkeeping).
//
// Mutations against different collections run freely concurrent.
// Mutations against the same collection are not serialized: a second
// mutation issued before the first settles can race, and the snapshot
// the loser restores may predate the winner's edit. Cancelling the
// refresh before patching keeps a stale read from clobbering a fresh
// write, which is the only fence this layer provides.
package reconcile

import (
	"context"

	"github.com/wardrobe-mods/wardrobe/internal/api"
	"github.com/wardrobe-mods/wardrobe/internal/logging"
	"github.com/wardrobe-mods/wardrobe/internal/models"
	"github.com/wardrobe-mods/wardrobe/internal/store"
)

// Coordinator drives the optimistic mutation protocol against one store
// and one daemon client.
type Coordinator struct {
	store     *store.Store
	client    *api.Client
	refresher *Refresher
	log       *logging.Logger
}

// New wires a coordinator and registers the refresh fetchers for every
// store key.
func New(s *store.Store, client *api.Client, log *logging.Logger) *Coordinator {
	c := &Coordinator{
		store:     s,
		client:    client,
		refresher: NewRefresher(log),
		log:       log.Component("reconcile"),
	}
	c.refresher.Register(store.KeyMods, c.fetchMods)
	c.refresher.Register(store.KeyProfiles, c.fetchProfiles)
	return c
}

// Store returns the store this coordinator mutates.
func (c *Coordinator) Store() *store.Store { return c.store }

// Close stops the refresher and waits for in-flight refreshes to drain.
func (c *Coordinator) Close() { c.refresher.Close() }

// RefreshMods fetches the mod collection synchronously and installs it
// as the new truth. Used at startup and by list commands that want
// fresh data rather than the cached snapshot.
func (c *Coordinator) RefreshMods(ctx context.Context) ([]models.Mod, error) {
	mods, err := c.client.ListMods(ctx)
	if err != nil {
		return nil, err
	}
	c.store.Mods.Write(mods)
	return mods, nil
}

// RefreshProfiles fetches all profiles plus the active marker
// synchronously and installs both.
func (c *Coordinator) RefreshProfiles(ctx context.Context) ([]models.Profile, error) {
	res, err := c.client.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	c.store.Profiles.Write(res.Profiles)
	c.store.ActiveProfile.Write(res.ActiveID)
	return res.Profiles, nil
}

// fetchMods is the background refresher for the mod collection. The
// context check before the write drops a result whose refresh was
// cancelled while the roundtrip was in flight, so it can never overwrite
// a newer optimistic value.
func (c *Coordinator) fetchMods(ctx context.Context) error {
	mods, err := c.client.ListMods(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.store.Mods.Write(mods)
	return nil
}

func (c *Coordinator) fetchProfiles(ctx context.Context) error {
	res, err := c.client.ListProfiles(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.store.Profiles.Write(res.Profiles)
	c.store.ActiveProfile.Write(res.ActiveID)
	return nil
}
