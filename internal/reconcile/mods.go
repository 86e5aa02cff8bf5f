package reconcile

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/wardrobe-mods/wardrobe/internal/apperr"
	"github.com/wardrobe-mods/wardrobe/internal/models"
	"github.com/wardrobe-mods/wardrobe/internal/ordering"
	"github.com/wardrobe-mods/wardrobe/internal/store"
)

// replaceMod swaps the collection entry matching confirmed.ID for the
// daemon's confirmed value. Canonicalization, not a second guess: the
// daemon may have adjusted fields the speculation could not know.
func replaceMod(confirmed models.Mod) func([]models.Mod) []models.Mod {
	return func(mods []models.Mod) []models.Mod {
		for i := range mods {
			if mods[i].ID == confirmed.ID {
				mods[i] = confirmed
			}
		}
		return mods
	}
}

// ToggleMod flips the enabled flag of exactly one mod, optimistically.
// On rejection the whole collection snapshot is restored.
func (c *Coordinator) ToggleMod(ctx context.Context, modID string, enabled bool) error {
	return runOptimistic(ctx, c, "toggle", store.KeyMods, c.store.Mods,
		func(mods []models.Mod) []models.Mod {
			for i := range mods {
				if mods[i].ID == modID {
					mods[i].Enabled = enabled
				}
			}
			return mods
		},
		func(ctx context.Context) (func([]models.Mod) []models.Mod, error) {
			confirmed, err := c.client.ToggleMod(ctx, modID, enabled)
			if err != nil {
				return nil, err
			}
			return replaceMod(confirmed), nil
		})
}

// ReorderMods applies a new order for the enabled partition. Ids the
// live collection does not hold are dropped silently, disabled mods
// keep their relative order at the tail, and the daemon's canonical
// list replaces the speculation once confirmed.
func (c *Coordinator) ReorderMods(ctx context.Context, enabledIDs []string) error {
	return runOptimistic(ctx, c, "reorder", store.KeyMods, c.store.Mods,
		func(mods []models.Mod) []models.Mod {
			return ordering.ApplyEnabledOrder(mods, enabledIDs)
		},
		func(ctx context.Context) (func([]models.Mod) []models.Mod, error) {
			confirmed, err := c.client.ReorderMods(ctx, enabledIDs)
			if err != nil {
				return nil, err
			}
			return func([]models.Mod) []models.Mod { return confirmed }, nil
		})
}

// MoveMod answers a drag gesture: move the enabled mod at position from
// to position to, both indices counted within the enabled partition.
// Disabled mods cannot be moved; the engine never crosses the
// partition boundary.
func (c *Coordinator) MoveMod(ctx context.Context, from, to int) error {
	mods, _ := c.store.Mods.Read()
	ids := ordering.EnabledIDs(mods)
	if from < 0 || from >= len(ids) {
		return apperr.New(apperr.CodeValidationFailed, "no enabled mod at position %d", from)
	}
	return c.ReorderMods(ctx, ordering.Move(ids, from, to))
}

// UninstallMod removes one mod, optimistically filtering it out of the
// collection. Rollback restores the full prior collection, position
// included.
func (c *Coordinator) UninstallMod(ctx context.Context, modID string) error {
	return runOptimistic(ctx, c, "uninstall", store.KeyMods, c.store.Mods,
		func(mods []models.Mod) []models.Mod {
			out := mods[:0]
			for _, m := range mods {
				if m.ID != modID {
					out = append(out, m)
				}
			}
			return out
		},
		func(ctx context.Context) (func([]models.Mod) []models.Mod, error) {
			if err := c.client.UninstallMod(ctx, modID); err != nil {
				return nil, err
			}
			return nil, nil
		})
}

// InstallMod imports one package file. Not optimistic: the daemon
// assigns the id, so there is nothing sensible to speculate. The
// confirmed mod is appended to the collection.
func (c *Coordinator) InstallMod(ctx context.Context, path string) (models.Mod, error) {
	return c.installOne(ctx, path, uuid.NewString())
}

func (c *Coordinator) installOne(ctx context.Context, path, operationID string) (models.Mod, error) {
	mod, err := c.client.InstallMod(ctx, path, operationID)
	if err != nil {
		return models.Mod{}, err
	}
	c.store.Mods.Patch(func(mods []models.Mod) []models.Mod {
		return append(mods, mod)
	})
	return mod, nil
}

// InstallFailure records one package that could not be installed
// during a bulk run.
type InstallFailure struct {
	FilePath string `json:"filePath"`
	FileName string `json:"fileName"`
	Message  string `json:"message"`
}

// BulkInstallResult accumulates the outcome of a bulk install.
type BulkInstallResult struct {
	Installed []models.Mod     `json:"installed"`
	Failed    []InstallFailure `json:"failed"`
}

// InstallStarted is called as each file's install begins, carrying the
// operation id that correlates progress events to the file. The CLI
// uses it to attach a progress bar.
type InstallStarted func(index int, operationID, fileName string)

// BulkInstall attempts each package independently. One failing file
// never aborts the rest: successes land in the store as they confirm
// and failures accumulate with their reason. No speculative entries
// exist at any point, so there is nothing to roll back.
func (c *Coordinator) BulkInstall(ctx context.Context, paths []string, started InstallStarted) BulkInstallResult {
	m := c.begin("bulk_install", store.KeyMods)
	c.refresher.Cancel(store.KeyMods)
	defer c.refresher.Kick(store.KeyMods)

	var result BulkInstallResult
	for i, path := range paths {
		operationID := uuid.NewString()
		fileName := filepath.Base(path)
		if started != nil {
			started(i+1, operationID, fileName)
		}

		mod, err := c.installOne(ctx, path, operationID)
		if err != nil {
			result.Failed = append(result.Failed, InstallFailure{
				FilePath: path,
				FileName: fileName,
				Message:  err.Error(),
			})
			c.log.Warn().Err(err).Str("file", fileName).Msg("install failed")
			continue
		}
		result.Installed = append(result.Installed, mod)
	}

	m.settled()
	return result
}
