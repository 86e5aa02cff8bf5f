package api

import (
	"context"
	"encoding/json"

	"github.com/wardrobe-mods/wardrobe/internal/apperr"
	"github.com/wardrobe-mods/wardrobe/internal/logging"
	"github.com/wardrobe-mods/wardrobe/internal/models"
)

// Invoker carries one command roundtrip to the daemon. internal/ipc
// provides the real transport; tests substitute their own.
type Invoker interface {
	Invoke(ctx context.Context, command string, args any) (json.RawMessage, error)
}

// Client exposes one typed method per daemon command. It is a thin
// translation layer: no retries, no caching, no store access. Callers
// that want either own that policy themselves.
type Client struct {
	transport Invoker
	log       *logging.Logger
}

// NewClient wraps a transport with the typed command surface.
func NewClient(transport Invoker, log *logging.Logger) *Client {
	return &Client{
		transport: transport,
		log:       log.Component("api"),
	}
}

// call performs one command and decodes the value into T. Transport and
// daemon errors pass through untouched; only a result that fails to
// decode is reported as a serialization error.
func call[T any](ctx context.Context, c *Client, name Name, args any) (T, error) {
	var out T
	raw, err := c.transport.Invoke(ctx, string(name), args)
	if err != nil {
		return out, err
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, apperr.New(apperr.CodeSerialization, "decode %s result: %v", name, err)
	}
	return out, nil
}

// ListMods returns every installed mod in canonical daemon order.
func (c *Client) ListMods(ctx context.Context) ([]models.Mod, error) {
	return call[[]models.Mod](ctx, c, CmdModsList, nil)
}

// ToggleMod flips one mod and returns its confirmed state.
func (c *Client) ToggleMod(ctx context.Context, modID string, enabled bool) (models.Mod, error) {
	return call[models.Mod](ctx, c, CmdModToggle, ModToggleArgs{ModID: modID, Enabled: enabled})
}

// ReorderMods submits the desired enabled order and returns the full
// canonical list the daemon settled on.
func (c *Client) ReorderMods(ctx context.Context, enabledIDs []string) ([]models.Mod, error) {
	return call[[]models.Mod](ctx, c, CmdModsReorder, ModsReorderArgs{EnabledIDs: enabledIDs})
}

// InstallMod imports one package file. Progress for the operation id
// arrives over the event subscription, not on this call.
func (c *Client) InstallMod(ctx context.Context, path, operationID string) (models.Mod, error) {
	return call[models.Mod](ctx, c, CmdModInstall, ModInstallArgs{Path: path, OperationID: operationID})
}

// UninstallMod removes one installed mod.
func (c *Client) UninstallMod(ctx context.Context, modID string) error {
	_, err := call[struct{}](ctx, c, CmdModUninstall, ModUninstallArgs{ModID: modID})
	return err
}

// ListProfiles returns all profiles plus the active profile id.
func (c *Client) ListProfiles(ctx context.Context) (ProfilesListResult, error) {
	return call[ProfilesListResult](ctx, c, CmdProfilesList, nil)
}

// CreateProfile adds a new empty profile.
func (c *Client) CreateProfile(ctx context.Context, name string) (models.Profile, error) {
	return call[models.Profile](ctx, c, CmdProfileCreate, ProfileCreateArgs{Name: name})
}

// RenameProfile renames a profile and returns its confirmed state.
func (c *Client) RenameProfile(ctx context.Context, profileID, name string) (models.Profile, error) {
	return call[models.Profile](ctx, c, CmdProfileRename, ProfileRenameArgs{ProfileID: profileID, Name: name})
}

// DeleteProfile removes a profile.
func (c *Client) DeleteProfile(ctx context.Context, profileID string) error {
	_, err := call[struct{}](ctx, c, CmdProfileDelete, ProfileDeleteArgs{ProfileID: profileID})
	return err
}

// SwitchProfile activates a profile and returns it.
func (c *Client) SwitchProfile(ctx context.Context, profileID string) (models.Profile, error) {
	return call[models.Profile](ctx, c, CmdProfileSwitch, ProfileSwitchArgs{ProfileID: profileID})
}

// ReorderLayers submits a mod's desired layer order, base excluded, and
// returns the mod with reassigned priorities.
func (c *Client) ReorderLayers(ctx context.Context, modID string, names []string) (models.Mod, error) {
	return call[models.Mod](ctx, c, CmdLayersReorder, LayersReorderArgs{ModID: modID, Names: names})
}

// CreateLayer adds an empty layer on top of a mod's stack.
func (c *Client) CreateLayer(ctx context.Context, modID, name, description string) (models.Mod, error) {
	return call[models.Mod](ctx, c, CmdLayerCreate, LayerCreateArgs{ModID: modID, Name: name, Description: description})
}

// DeleteLayer removes a layer from a mod.
func (c *Client) DeleteLayer(ctx context.Context, modID, name string) (models.Mod, error) {
	return call[models.Mod](ctx, c, CmdLayerDelete, LayerDeleteArgs{ModID: modID, Name: name})
}

// SetLayerOverride writes one key into a layer's locale tier.
func (c *Client) SetLayerOverride(ctx context.Context, modID, layer, locale, key, value string) (models.Mod, error) {
	return call[models.Mod](ctx, c, CmdLayerSetOverride, LayerSetOverrideArgs{
		ModID:  modID,
		Layer:  layer,
		Locale: locale,
		Key:    key,
		Value:  value,
	})
}

// RemoveLayerOverride deletes one key from a layer's locale tier.
func (c *Client) RemoveLayerOverride(ctx context.Context, modID, layer, locale, key string) (models.Mod, error) {
	return call[models.Mod](ctx, c, CmdLayerRemoveOverride, LayerRemoveOverrideArgs{
		ModID:  modID,
		Layer:  layer,
		Locale: locale,
		Key:    key,
	})
}

// Status reports daemon health and game detection.
func (c *Client) Status(ctx context.Context) (StatusResult, error) {
	return call[StatusResult](ctx, c, CmdStatus, nil)
}
