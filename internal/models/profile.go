package models

import "time"

// Profile captures a named selection of enabled mods and their order.
// EnabledMods is authoritative for the relative order of enabled mods
// while the profile is active.
type Profile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	EnabledMods []string  `json:"enabledMods"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUsedAt  time.Time `json:"lastUsedAt"`
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	out := p
	if p.EnabledMods != nil {
		out.EnabledMods = append([]string(nil), p.EnabledMods...)
	}
	return out
}

// CloneProfiles deep-copies a profile collection, preserving nil.
func CloneProfiles(profiles []Profile) []Profile {
	if profiles == nil {
		return nil
	}
	out := make([]Profile, len(profiles))
	for i, p := range profiles {
		out[i] = p.Clone()
	}
	return out
}
