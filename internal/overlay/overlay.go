// Package overlay resolves effective override values across a mod's
// layer stack and keeps the stack's priority invariants.
//
// Resolution is pure: no function here mutates stored overrides, so
// callers may resolve on every refresh without defensive copies.
package overlay

import (
	"errors"
	"fmt"
	"sort"

	"github.com/wardrobe-mods/wardrobe/internal/models"
)

var (
	// ErrDuplicatePriority indicates two layers of one mod share a priority.
	ErrDuplicatePriority = errors.New("duplicate layer priority")
	// ErrBasePriority indicates the base layer is not at priority 0.
	ErrBasePriority = errors.New("base layer must hold priority 0")
	// ErrPriorityGap indicates non-base priorities are not contiguous from 1.
	ErrPriorityGap = errors.New("layer priorities must be contiguous")
)

// Resolve computes the effective value for key under locale: layers are
// scanned in ascending priority, each consulted for the specific locale
// first and the default tier second, and the highest-priority hit wins.
// The second return is false when no layer defines the key in either
// tier.
func Resolve(layers []models.Layer, locale, key string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, l := range ascending(layers) {
		if v, ok := tierLookup(l, locale, key); ok {
			value, found = v, true
		}
	}
	return value, found
}

// ResolveAll computes the full effective key/value view for a locale,
// applying the same precedence as Resolve for every key any layer
// defines.
func ResolveAll(layers []models.Layer, locale string) map[string]string {
	out := make(map[string]string)
	for _, l := range ascending(layers) {
		for k, v := range l.Overrides[models.DefaultLocale] {
			out[k] = v
		}
		if locale != models.DefaultLocale {
			for k, v := range l.Overrides[locale] {
				out[k] = v
			}
		}
	}
	return out
}

// tierLookup consults one layer: the requested locale first, then the
// default tier.
func tierLookup(l models.Layer, locale, key string) (string, bool) {
	if l.Overrides == nil {
		return "", false
	}
	if kv, ok := l.Overrides[locale]; ok {
		if v, ok := kv[key]; ok {
			return v, true
		}
	}
	if locale == models.DefaultLocale {
		return "", false
	}
	if kv, ok := l.Overrides[models.DefaultLocale]; ok {
		if v, ok := kv[key]; ok {
			return v, true
		}
	}
	return "", false
}

// ascending returns the layers sorted by priority without touching the
// caller's slice.
func ascending(layers []models.Layer) []models.Layer {
	out := append([]models.Layer(nil), layers...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// Normalize reassigns priorities so the base layer (when present) holds
// 0 and the remaining layers run 1..n in their current ascending order.
// The input is left untouched.
func Normalize(layers []models.Layer) []models.Layer {
	sorted := ascending(layers)
	out := make([]models.Layer, 0, len(sorted))
	next := 1
	for _, l := range sorted {
		if l.Name == models.BaseLayer {
			l.Priority = 0
			out = append(out, l)
			continue
		}
		l.Priority = next
		next++
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// Reorder rebuilds the non-base stack to follow names, then normalizes
// priorities. Unknown names are dropped, the base layer is pinned
// regardless of whether names mentions it, and layers the list omits
// keep their prior relative order after the listed ones.
func Reorder(layers []models.Layer, names []string) []models.Layer {
	byName := make(map[string]models.Layer, len(layers))
	for _, l := range layers {
		byName[l.Name] = l
	}

	out := make([]models.Layer, 0, len(layers))
	if base, ok := byName[models.BaseLayer]; ok {
		out = append(out, base)
	}
	placed := map[string]bool{models.BaseLayer: true}
	for _, name := range names {
		l, ok := byName[name]
		if !ok || placed[name] {
			continue
		}
		out = append(out, l)
		placed[name] = true
	}
	for _, l := range ascending(layers) {
		if !placed[l.Name] {
			out = append(out, l)
			placed[l.Name] = true
		}
	}

	// Slice order is authoritative here, so reassign directly rather
	// than going through Normalize, which trusts priorities.
	next := 1
	for i := range out {
		if out[i].Name == models.BaseLayer {
			out[i].Priority = 0
			continue
		}
		out[i].Priority = next
		next++
	}
	return out
}

// Validate checks the stack invariants: unique priorities, base pinned
// to 0, and non-base priorities contiguous from 1.
func Validate(layers []models.Layer) error {
	seen := make(map[int]string, len(layers))
	for _, l := range layers {
		if prev, dup := seen[l.Priority]; dup {
			return fmt.Errorf("%w: %d held by %q and %q", ErrDuplicatePriority, l.Priority, prev, l.Name)
		}
		seen[l.Priority] = l.Name
		if l.Name == models.BaseLayer && l.Priority != 0 {
			return fmt.Errorf("%w: found %d", ErrBasePriority, l.Priority)
		}
	}
	next := 1
	for _, l := range ascending(layers) {
		if l.Name == models.BaseLayer {
			continue
		}
		if l.Priority != next {
			return fmt.Errorf("%w: want %d, found %d (%q)", ErrPriorityGap, next, l.Priority, l.Name)
		}
		next++
	}
	return nil
}
