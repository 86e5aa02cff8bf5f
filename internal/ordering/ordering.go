// Package ordering maintains the enabled/disabled partition of the mod
// collection and computes canonical sequences for reorder requests.
//
// Every function returns fresh slices and leaves its inputs untouched,
// so results can be fed straight into store patches.
package ordering

import (
	"github.com/wardrobe-mods/wardrobe/internal/models"
)

// Move returns ids with the element at from reinserted at to. The move
// is stable: elements between the two indices shift by exactly one
// position and nothing else changes relative order. An out-of-range
// from returns an unchanged copy; to is clamped.
func Move(ids []string, from, to int) []string {
	out := append([]string(nil), ids...)
	if from < 0 || from >= len(out) || from == to {
		return out
	}
	if to < 0 {
		to = 0
	}
	if to >= len(out) {
		to = len(out) - 1
	}
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]string{moved}, out[to:]...)...)
	return out
}

// EnabledIDs returns the ids of the enabled mods in collection order.
func EnabledIDs(mods []models.Mod) []string {
	ids := make([]string, 0, len(mods))
	for _, m := range mods {
		if m.Enabled {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// ApplyEnabledOrder rebuilds the collection so the enabled partition
// follows enabledIDs. Ids missing from the collection are silently
// dropped, ids naming disabled mods are ignored, and enabled mods the
// list omits keep their prior relative order after the listed ones.
// Disabled mods keep their prior relative order at the tail, so the
// partition invariant survives any input.
func ApplyEnabledOrder(mods []models.Mod, enabledIDs []string) []models.Mod {
	byID := make(map[string]int, len(mods))
	for i, m := range mods {
		byID[m.ID] = i
	}

	out := make([]models.Mod, 0, len(mods))
	placed := make(map[string]bool, len(enabledIDs))
	for _, id := range enabledIDs {
		i, ok := byID[id]
		if !ok || !mods[i].Enabled || placed[id] {
			continue
		}
		out = append(out, mods[i])
		placed[id] = true
	}
	for _, m := range mods {
		if m.Enabled && !placed[m.ID] {
			out = append(out, m)
		}
	}
	for _, m := range mods {
		if !m.Enabled {
			out = append(out, m)
		}
	}
	return out
}

// Canonical orders mods for display: the enabled partition first,
// sequenced by the active profile's enabled-mod order, then the
// disabled partition in backend insertion order. Enabled mods absent
// from profileOrder follow the sequenced ones, keeping their prior
// relative order.
func Canonical(mods []models.Mod, profileOrder []string) []models.Mod {
	return ApplyEnabledOrder(mods, profileOrder)
}

// PartitionIntact reports whether every enabled mod precedes every
// disabled mod.
func PartitionIntact(mods []models.Mod) bool {
	seenDisabled := false
	for _, m := range mods {
		if !m.Enabled {
			seenDisabled = true
		} else if seenDisabled {
			return false
		}
	}
	return true
}
