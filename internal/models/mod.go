// Package models defines the data structures shared by the store, the
// daemon client and the CLI.
package models

import "time"

// BaseLayer is the name of the override layer every mod carries at
// priority 0. The daemon creates it at install time; it cannot be
// deleted or moved.
const BaseLayer = "base"

// DefaultLocale is the override locale consulted when a layer has no
// entry for the requested locale.
const DefaultLocale = "default"

// Mod represents one installed mod package as reported by the daemon.
type Mod struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Version     string    `json:"version,omitempty"`
	Description string    `json:"description,omitempty"`
	Authors     []string  `json:"authors,omitempty"`
	Enabled     bool      `json:"enabled"`
	InstalledAt time.Time `json:"installedAt"`
	Path        string    `json:"path,omitempty"`
	Layers      []Layer   `json:"layers,omitempty"`
}

// Layer is one override tier inside a mod. Priorities within a mod are
// unique; BaseLayer sits at 0 and the remaining layers run 1..n with no
// gaps.
type Layer struct {
	Name        string                       `json:"name"`
	Priority    int                          `json:"priority"`
	Description string                       `json:"description,omitempty"`
	Overrides   map[string]map[string]string `json:"overrides,omitempty"` // locale -> key -> value
}

// Clone returns a deep copy of the mod. Store snapshots rely on clones
// never sharing backing arrays or maps with the original.
func (m Mod) Clone() Mod {
	out := m
	if m.Authors != nil {
		out.Authors = append([]string(nil), m.Authors...)
	}
	if m.Layers != nil {
		out.Layers = make([]Layer, len(m.Layers))
		for i, l := range m.Layers {
			out.Layers[i] = l.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the layer, including its override maps.
func (l Layer) Clone() Layer {
	out := l
	if l.Overrides != nil {
		out.Overrides = make(map[string]map[string]string, len(l.Overrides))
		for locale, kv := range l.Overrides {
			inner := make(map[string]string, len(kv))
			for k, v := range kv {
				inner[k] = v
			}
			out.Overrides[locale] = inner
		}
	}
	return out
}

// CloneMods deep-copies a mod collection. A nil input stays nil so
// "never loaded" survives round trips through snapshots.
func CloneMods(mods []Mod) []Mod {
	if mods == nil {
		return nil
	}
	out := make([]Mod, len(mods))
	for i, m := range mods {
		out[i] = m.Clone()
	}
	return out
}
