package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wardrobe-mods/wardrobe/internal/api"
	"github.com/wardrobe-mods/wardrobe/internal/config"
	"github.com/wardrobe-mods/wardrobe/internal/ipc"
	"github.com/wardrobe-mods/wardrobe/internal/progress"
	"github.com/wardrobe-mods/wardrobe/internal/reconcile"
	"github.com/wardrobe-mods/wardrobe/internal/store"
)

// app bundles the wired components one command invocation needs. Each
// command builds an app, uses it, and closes it; the CLI is a
// short-lived client of the long-lived daemon.
type app struct {
	cfg    *config.Config
	store  *store.Store
	coord  *reconcile.Coordinator
	client *api.Client
	ipc    *ipc.Client
	router *progress.Router

	cache         *store.DiskCache
	cancelPersist func()
}

// newApp loads config and wires store, transport and coordinator.
// warmStart hydrates the store from the disk snapshot so list commands
// can fall back to last-known state when the daemon is down.
func newApp(warmStart bool) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if socketPath != "" {
		cfg.SocketPath = socketPath
	}

	log := GetLogger()
	transport := ipc.NewClient(cfg.SocketPath, cfg.Timeout(), log)
	client := api.NewClient(transport, log)
	st := store.New()
	coord := reconcile.New(st, client, log)

	a := &app{
		cfg:    cfg,
		store:  st,
		coord:  coord,
		client: client,
		ipc:    transport,
		router: progress.NewRouter(),
	}

	if warmStart {
		cache, err := store.OpenDiskCache(cfg.CacheDir, log)
		if err != nil {
			log.Warn().Err(err).Msg("disk cache unavailable, continuing without it")
		} else {
			cache.Hydrate(st)
			a.cache = cache
			a.cancelPersist = cache.Persist(st)
		}
	}

	return a, nil
}

// close tears the app down in reverse wiring order.
func (a *app) close() {
	a.coord.Close()
	a.router.Close()
	if a.cancelPersist != nil {
		a.cancelPersist()
	}
	if a.cache != nil {
		a.cache.Close()
	}
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
