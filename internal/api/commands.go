// Package api is the typed command surface of the wardrobe daemon.
//
// Every daemon command has a Name constant, a typed args struct, a typed
// result struct, and a Registry entry tying the three together. The set
// is closed: adding a command means adding all four pieces here, and the
// compiler plus the registry test keep callers honest. Anything not in
// this file is not a command the daemon speaks.
package api

import "github.com/wardrobe-mods/wardrobe/internal/models"

// Name identifies one daemon command on the wire.
type Name string

const (
	CmdModsList     Name = "mods_list"
	CmdModToggle    Name = "mod_toggle"
	CmdModsReorder  Name = "mods_reorder"
	CmdModInstall   Name = "mod_install"
	CmdModUninstall Name = "mod_uninstall"

	CmdProfilesList  Name = "profiles_list"
	CmdProfileCreate Name = "profile_create"
	CmdProfileRename Name = "profile_rename"
	CmdProfileDelete Name = "profile_delete"
	CmdProfileSwitch Name = "profile_switch"

	CmdLayersReorder       Name = "layers_reorder"
	CmdLayerCreate         Name = "layer_create"
	CmdLayerDelete         Name = "layer_delete"
	CmdLayerSetOverride    Name = "layer_set_override"
	CmdLayerRemoveOverride Name = "layer_remove_override"

	CmdStatus Name = "status"
)

// ModToggleArgs enables or disables a single mod.
type ModToggleArgs struct {
	ModID   string `json:"modId"`
	Enabled bool   `json:"enabled"`
}

// ModsReorderArgs carries the desired order of enabled mod ids.
// The daemon answers with the full canonical list.
type ModsReorderArgs struct {
	EnabledIDs []string `json:"enabledIds"`
}

// ModInstallArgs asks the daemon to import one package file. OperationID
// keys progress events back to the caller that started the install.
type ModInstallArgs struct {
	Path        string `json:"path"`
	OperationID string `json:"operationId"`
}

// ModUninstallArgs removes one installed mod.
type ModUninstallArgs struct {
	ModID string `json:"modId"`
}

// ProfileCreateArgs names a new empty profile.
type ProfileCreateArgs struct {
	Name string `json:"name"`
}

// ProfileRenameArgs renames an existing profile.
type ProfileRenameArgs struct {
	ProfileID string `json:"profileId"`
	Name      string `json:"name"`
}

// ProfileDeleteArgs removes a profile. The active profile cannot be
// deleted; the daemon rejects that with VALIDATION_FAILED.
type ProfileDeleteArgs struct {
	ProfileID string `json:"profileId"`
}

// ProfileSwitchArgs makes a profile active and applies its mod set.
type ProfileSwitchArgs struct {
	ProfileID string `json:"profileId"`
}

// LayersReorderArgs carries the desired layer order for one mod, base
// excluded. Priorities are reassigned daemon-side from the given order.
type LayersReorderArgs struct {
	ModID string   `json:"modId"`
	Names []string `json:"names"`
}

// LayerCreateArgs adds an empty layer on top of a mod's stack.
type LayerCreateArgs struct {
	ModID       string `json:"modId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// LayerDeleteArgs removes a layer. The base layer cannot be deleted.
type LayerDeleteArgs struct {
	ModID string `json:"modId"`
	Name  string `json:"name"`
}

// LayerSetOverrideArgs writes one key into a layer's locale tier.
type LayerSetOverrideArgs struct {
	ModID  string `json:"modId"`
	Layer  string `json:"layer"`
	Locale string `json:"locale"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// LayerRemoveOverrideArgs deletes one key from a layer's locale tier.
type LayerRemoveOverrideArgs struct {
	ModID  string `json:"modId"`
	Layer  string `json:"layer"`
	Locale string `json:"locale"`
	Key    string `json:"key"`
}

// ProfilesListResult is the daemon's answer to profiles_list.
type ProfilesListResult struct {
	Profiles []models.Profile `json:"profiles"`
	ActiveID string           `json:"activeId"`
}

// StatusResult reports daemon health and game detection.
type StatusResult struct {
	PatcherRunning bool   `json:"patcherRunning"`
	GameFound      bool   `json:"gameFound"`
	GamePath       string `json:"gamePath"`
	DaemonVersion  string `json:"daemonVersion"`
}

// Spec describes one command's wire types. NewArgs and NewResult return
// pointers to zero values suitable for json.Unmarshal; NewArgs is nil
// for commands that take no arguments.
type Spec struct {
	Name      Name
	NewArgs   func() any
	NewResult func() any
}

// Registry maps every command to its wire types. The daemon and client
// both validate against this table.
var Registry = map[Name]Spec{
	CmdModsList: {
		Name:      CmdModsList,
		NewResult: func() any { return &[]models.Mod{} },
	},
	CmdModToggle: {
		Name:      CmdModToggle,
		NewArgs:   func() any { return &ModToggleArgs{} },
		NewResult: func() any { return &models.Mod{} },
	},
	CmdModsReorder: {
		Name:      CmdModsReorder,
		NewArgs:   func() any { return &ModsReorderArgs{} },
		NewResult: func() any { return &[]models.Mod{} },
	},
	CmdModInstall: {
		Name:      CmdModInstall,
		NewArgs:   func() any { return &ModInstallArgs{} },
		NewResult: func() any { return &models.Mod{} },
	},
	CmdModUninstall: {
		Name:      CmdModUninstall,
		NewArgs:   func() any { return &ModUninstallArgs{} },
		NewResult: func() any { return &struct{}{} },
	},
	CmdProfilesList: {
		Name:      CmdProfilesList,
		NewResult: func() any { return &ProfilesListResult{} },
	},
	CmdProfileCreate: {
		Name:      CmdProfileCreate,
		NewArgs:   func() any { return &ProfileCreateArgs{} },
		NewResult: func() any { return &models.Profile{} },
	},
	CmdProfileRename: {
		Name:      CmdProfileRename,
		NewArgs:   func() any { return &ProfileRenameArgs{} },
		NewResult: func() any { return &models.Profile{} },
	},
	CmdProfileDelete: {
		Name:      CmdProfileDelete,
		NewArgs:   func() any { return &ProfileDeleteArgs{} },
		NewResult: func() any { return &struct{}{} },
	},
	CmdProfileSwitch: {
		Name:      CmdProfileSwitch,
		NewArgs:   func() any { return &ProfileSwitchArgs{} },
		NewResult: func() any { return &models.Profile{} },
	},
	CmdLayersReorder: {
		Name:      CmdLayersReorder,
		NewArgs:   func() any { return &LayersReorderArgs{} },
		NewResult: func() any { return &models.Mod{} },
	},
	CmdLayerCreate: {
		Name:      CmdLayerCreate,
		NewArgs:   func() any { return &LayerCreateArgs{} },
		NewResult: func() any { return &models.Mod{} },
	},
	CmdLayerDelete: {
		Name:      CmdLayerDelete,
		NewArgs:   func() any { return &LayerDeleteArgs{} },
		NewResult: func() any { return &models.Mod{} },
	},
	CmdLayerSetOverride: {
		Name:      CmdLayerSetOverride,
		NewArgs:   func() any { return &LayerSetOverrideArgs{} },
		NewResult: func() any { return &models.Mod{} },
	},
	CmdLayerRemoveOverride: {
		Name:      CmdLayerRemoveOverride,
		NewArgs:   func() any { return &LayerRemoveOverrideArgs{} },
		NewResult: func() any { return &models.Mod{} },
	},
	CmdStatus: {
		Name:      CmdStatus,
		NewResult: func() any { return &StatusResult{} },
	},
}

// Known reports whether name is a registered command.
func Known(name Name) bool {
	_, ok := Registry[name]
	return ok
}
