package store

import "github.com/wardrobe-mods/wardrobe/internal/models"

// Key names one refreshable collection. The mutation coordinator keys
// its snapshot/cancel/refresh cycle on these.
type Key string

const (
	KeyMods     Key = "mods"
	KeyProfiles Key = "profiles"
)

// Store is the authoritative local cache. The daemon remains the source
// of truth; cells hold the last-known-good snapshot plus any optimistic
// edits awaiting confirmation.
type Store struct {
	Mods          *Cell[[]models.Mod]
	Profiles      *Cell[[]models.Profile]
	ActiveProfile *Cell[string]
}

// New creates an empty store.
func New() *Store {
	return &Store{
		Mods:          NewCell(models.CloneMods),
		Profiles:      NewCell(models.CloneProfiles),
		ActiveProfile: NewCell(func(s string) string { return s }),
	}
}

// FindMod returns a copy of the mod with the given id.
func (s *Store) FindMod(id string) (models.Mod, bool) {
	mods, _ := s.Mods.Read()
	for _, m := range mods {
		if m.ID == id {
			return m, true
		}
	}
	return models.Mod{}, false
}

// FindProfile returns a copy of the profile with the given id.
func (s *Store) FindProfile(id string) (models.Profile, bool) {
	profiles, _ := s.Profiles.Read()
	for _, p := range profiles {
		if p.ID == id {
			return p, true
		}
	}
	return models.Profile{}, false
}

// Active returns a copy of the active profile, when both the marker and
// the profile collection are loaded and agree.
func (s *Store) Active() (models.Profile, bool) {
	id, ok := s.ActiveProfile.Read()
	if !ok || id == "" {
		return models.Profile{}, false
	}
	return s.FindProfile(id)
}
