package reconcile

import (
	"context"

	"github.com/wardrobe-mods/wardrobe/internal/models"
	"github.com/wardrobe-mods/wardrobe/internal/overlay"
	"github.com/wardrobe-mods/wardrobe/internal/store"
)

// patchModLayers returns a speculation that rewrites one mod's layer
// stack, leaving every other mod untouched.
func patchModLayers(modID string, edit func([]models.Layer) []models.Layer) func([]models.Mod) []models.Mod {
	return func(mods []models.Mod) []models.Mod {
		for i := range mods {
			if mods[i].ID == modID {
				mods[i].Layers = edit(mods[i].Layers)
			}
		}
		return mods
	}
}

// ReorderLayers applies a new order to a mod's non-base layers.
// Priorities are reassigned contiguously with base pinned at 0, both in
// the speculation and daemon-side.
func (c *Coordinator) ReorderLayers(ctx context.Context, modID string, names []string) error {
	return runOptimistic(ctx, c, "reorder_layers", store.KeyMods, c.store.Mods,
		patchModLayers(modID, func(layers []models.Layer) []models.Layer {
			return overlay.Reorder(layers, names)
		}),
		func(ctx context.Context) (func([]models.Mod) []models.Mod, error) {
			confirmed, err := c.client.ReorderLayers(ctx, modID, names)
			if err != nil {
				return nil, err
			}
			return replaceMod(confirmed), nil
		})
}

// CreateLayer adds an empty layer on top of a mod's stack, speculated
// at the next free priority.
func (c *Coordinator) CreateLayer(ctx context.Context, modID, name, description string) error {
	return runOptimistic(ctx, c, "create_layer", store.KeyMods, c.store.Mods,
		patchModLayers(modID, func(layers []models.Layer) []models.Layer {
			return overlay.Normalize(append(layers, models.Layer{
				Name:        name,
				Priority:    len(layers) + 1,
				Description: description,
			}))
		}),
		func(ctx context.Context) (func([]models.Mod) []models.Mod, error) {
			confirmed, err := c.client.CreateLayer(ctx, modID, name, description)
			if err != nil {
				return nil, err
			}
			return replaceMod(confirmed), nil
		})
}

// DeleteLayer removes a layer and closes the priority gap. The base
// layer cannot be deleted; the daemon refuses and the speculation never
// touches it either.
func (c *Coordinator) DeleteLayer(ctx context.Context, modID, name string) error {
	return runOptimistic(ctx, c, "delete_layer", store.KeyMods, c.store.Mods,
		patchModLayers(modID, func(layers []models.Layer) []models.Layer {
			if name == models.BaseLayer {
				return layers
			}
			out := layers[:0]
			for _, l := range layers {
				if l.Name != name {
					out = append(out, l)
				}
			}
			return overlay.Normalize(out)
		}),
		func(ctx context.Context) (func([]models.Mod) []models.Mod, error) {
			confirmed, err := c.client.DeleteLayer(ctx, modID, name)
			if err != nil {
				return nil, err
			}
			return replaceMod(confirmed), nil
		})
}

// SetLayerOverride writes one key into a layer's locale tier.
func (c *Coordinator) SetLayerOverride(ctx context.Context, modID, layer, locale, key, value string) error {
	return runOptimistic(ctx, c, "set_override", store.KeyMods, c.store.Mods,
		patchModLayers(modID, func(layers []models.Layer) []models.Layer {
			for i := range layers {
				if layers[i].Name != layer {
					continue
				}
				if layers[i].Overrides == nil {
					layers[i].Overrides = make(map[string]map[string]string)
				}
				if layers[i].Overrides[locale] == nil {
					layers[i].Overrides[locale] = make(map[string]string)
				}
				layers[i].Overrides[locale][key] = value
			}
			return layers
		}),
		func(ctx context.Context) (func([]models.Mod) []models.Mod, error) {
			confirmed, err := c.client.SetLayerOverride(ctx, modID, layer, locale, key, value)
			if err != nil {
				return nil, err
			}
			return replaceMod(confirmed), nil
		})
}

// RemoveLayerOverride deletes one key from a layer's locale tier.
func (c *Coordinator) RemoveLayerOverride(ctx context.Context, modID, layer, locale, key string) error {
	return runOptimistic(ctx, c, "remove_override", store.KeyMods, c.store.Mods,
		patchModLayers(modID, func(layers []models.Layer) []models.Layer {
			for i := range layers {
				if layers[i].Name != layer {
					continue
				}
				if kv, ok := layers[i].Overrides[locale]; ok {
					delete(kv, key)
					if len(kv) == 0 {
						delete(layers[i].Overrides, locale)
					}
				}
			}
			return layers
		}),
		func(ctx context.Context) (func([]models.Mod) []models.Mod, error) {
			confirmed, err := c.client.RemoveLayerOverride(ctx, modID, layer, locale, key)
			if err != nil {
				return nil, err
			}
			return replaceMod(confirmed), nil
		})
}
