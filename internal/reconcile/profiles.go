package reconcile

import (
	"context"

	"github.com/wardrobe-mods/wardrobe/internal/models"
	"github.com/wardrobe-mods/wardrobe/internal/store"
)

func replaceProfile(confirmed models.Profile) func([]models.Profile) []models.Profile {
	return func(profiles []models.Profile) []models.Profile {
		for i := range profiles {
			if profiles[i].ID == confirmed.ID {
				profiles[i] = confirmed
			}
		}
		return profiles
	}
}

// SwitchProfile activates another profile. Only the active-profile
// marker is speculated: the enabled set under the new profile is not
// knowable without the roundtrip, so no mod list is fabricated.
// Settling kicks a mods refresh to pull the collection as the new
// profile sees it.
func (c *Coordinator) SwitchProfile(ctx context.Context, profileID string) error {
	err := runOptimistic(ctx, c, "switch_profile", store.KeyProfiles, c.store.ActiveProfile,
		func(string) string { return profileID },
		func(ctx context.Context) (func(string) string, error) {
			confirmed, err := c.client.SwitchProfile(ctx, profileID)
			if err != nil {
				return nil, err
			}
			c.store.Profiles.Patch(replaceProfile(confirmed))
			return func(string) string { return confirmed.ID }, nil
		})
	if err != nil {
		return err
	}
	// The enabled set changed out from under the mod collection;
	// invalidate it.
	c.refresher.Cancel(store.KeyMods)
	c.refresher.Kick(store.KeyMods)
	return nil
}

// RenameProfile renames a profile optimistically.
func (c *Coordinator) RenameProfile(ctx context.Context, profileID, name string) error {
	return runOptimistic(ctx, c, "rename_profile", store.KeyProfiles, c.store.Profiles,
		func(profiles []models.Profile) []models.Profile {
			for i := range profiles {
				if profiles[i].ID == profileID {
					profiles[i].Name = name
				}
			}
			return profiles
		},
		func(ctx context.Context) (func([]models.Profile) []models.Profile, error) {
			confirmed, err := c.client.RenameProfile(ctx, profileID, name)
			if err != nil {
				return nil, err
			}
			return replaceProfile(confirmed), nil
		})
}

// CreateProfile adds a new empty profile. Not optimistic: the id is
// daemon-assigned, so the confirmed profile is appended directly.
func (c *Coordinator) CreateProfile(ctx context.Context, name string) (models.Profile, error) {
	m := c.begin("create_profile", store.KeyProfiles)
	c.refresher.Cancel(store.KeyProfiles)
	defer c.refresher.Kick(store.KeyProfiles)

	profile, err := c.client.CreateProfile(ctx, name)
	if err != nil {
		m.rolledBack(err)
		return models.Profile{}, err
	}
	c.store.Profiles.Patch(func(profiles []models.Profile) []models.Profile {
		return append(profiles, profile)
	})
	m.settled()
	return profile, nil
}

// DeleteProfile removes a profile, optimistically filtering it out.
// Deleting the active profile is the daemon's call to refuse; rollback
// restores the collection either way.
func (c *Coordinator) DeleteProfile(ctx context.Context, profileID string) error {
	return runOptimistic(ctx, c, "delete_profile", store.KeyProfiles, c.store.Profiles,
		func(profiles []models.Profile) []models.Profile {
			out := profiles[:0]
			for _, p := range profiles {
				if p.ID != profileID {
					out = append(out, p)
				}
			}
			return out
		},
		func(ctx context.Context) (func([]models.Profile) []models.Profile, error) {
			if err := c.client.DeleteProfile(ctx, profileID); err != nil {
				return nil, err
			}
			return nil, nil
		})
}
