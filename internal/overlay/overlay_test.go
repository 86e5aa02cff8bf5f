package overlay

import (
	"errors"
	"reflect"
	"testing"

	"github.com/wardrobe-mods/wardrobe/internal/models"
)

func stack() []models.Layer {
	return []models.Layer{
		{Name: models.BaseLayer, Priority: 0, Overrides: map[string]map[string]string{
			models.DefaultLocale: {"k": "a"},
		}},
		{Name: "chromas", Priority: 1, Overrides: map[string]map[string]string{
			"en": {"k": "b"},
		}},
	}
}

func TestResolve_HigherPriorityWins(t *testing.T) {
	layers := stack()

	if v, ok := Resolve(layers, "en", "k"); !ok || v != "b" {
		t.Errorf(`Resolve(en, k) = %q, %v; want "b", true`, v, ok)
	}
	if v, ok := Resolve(layers, "fr", "k"); !ok || v != "a" {
		t.Errorf(`Resolve(fr, k) = %q, %v; want "a", true`, v, ok)
	}
}

func TestResolve_MissingKey(t *testing.T) {
	if v, ok := Resolve(stack(), "en", "absent"); ok || v != "" {
		t.Errorf("Resolve on absent key = %q, %v; want empty, false", v, ok)
	}
	if _, ok := Resolve(nil, "en", "k"); ok {
		t.Error("Resolve on nil layers should find nothing")
	}
}

func TestResolve_LocaleBeatsDefaultWithinLayer(t *testing.T) {
	layers := []models.Layer{
		{Name: models.BaseLayer, Priority: 0, Overrides: map[string]map[string]string{
			models.DefaultLocale: {"k": "shared"},
			"en":                 {"k": "english"},
		}},
	}
	if v, _ := Resolve(layers, "en", "k"); v != "english" {
		t.Errorf("got %q, want locale tier to win inside one layer", v)
	}
	if v, _ := Resolve(layers, models.DefaultLocale, "k"); v != "shared" {
		t.Errorf("got %q, want default tier value", v)
	}
}

func TestResolve_HigherDefaultBeatsLowerLocale(t *testing.T) {
	// The scan is by priority; the tier fallback happens per layer.
	layers := []models.Layer{
		{Name: models.BaseLayer, Priority: 0, Overrides: map[string]map[string]string{
			"en": {"k": "low-specific"},
		}},
		{Name: "vfx", Priority: 1, Overrides: map[string]map[string]string{
			models.DefaultLocale: {"k": "high-default"},
		}},
	}
	if v, _ := Resolve(layers, "en", "k"); v != "high-default" {
		t.Errorf("got %q, want the higher layer's default tier", v)
	}
}

func TestResolve_UnsortedInput(t *testing.T) {
	layers := []models.Layer{
		{Name: "c", Priority: 2, Overrides: map[string]map[string]string{models.DefaultLocale: {"k": "top"}}},
		{Name: models.BaseLayer, Priority: 0, Overrides: map[string]map[string]string{models.DefaultLocale: {"k": "bottom"}}},
		{Name: "b", Priority: 1, Overrides: map[string]map[string]string{models.DefaultLocale: {"k": "middle"}}},
	}
	if v, _ := Resolve(layers, "en", "k"); v != "top" {
		t.Errorf("got %q, want %q", v, "top")
	}
}

func TestResolve_PureAndIdempotent(t *testing.T) {
	layers := stack()

	first, _ := Resolve(layers, "en", "k")
	second, _ := Resolve(layers, "en", "k")
	if first != second {
		t.Errorf("resolve not idempotent: %q then %q", first, second)
	}
	if !reflect.DeepEqual(layers, stack()) {
		t.Error("resolve mutated the layer stack")
	}
}

func TestResolveAll_MergedView(t *testing.T) {
	layers := []models.Layer{
		{Name: models.BaseLayer, Priority: 0, Overrides: map[string]map[string]string{
			models.DefaultLocale: {"skin": "base.skn", "map": "rift"},
		}},
		{Name: "chromas", Priority: 1, Overrides: map[string]map[string]string{
			"en":                 {"skin": "chroma_en.skn"},
			models.DefaultLocale: {"voice": "vo.wem"},
		}},
	}
	got := ResolveAll(layers, "en")
	want := map[string]string{"skin": "chroma_en.skn", "map": "rift", "voice": "vo.wem"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNormalize_PinsBaseAndClosesGaps(t *testing.T) {
	layers := []models.Layer{
		{Name: "vfx", Priority: 7},
		{Name: models.BaseLayer, Priority: 3},
		{Name: "sfx", Priority: 5},
	}
	got := Normalize(layers)

	wantOrder := []string{models.BaseLayer, "sfx", "vfx"}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Fatalf("position %d = %q, want %q (%+v)", i, got[i].Name, name, got)
		}
		if got[i].Priority != i {
			t.Errorf("%q priority = %d, want %d", name, got[i].Priority, i)
		}
	}
	if layers[0].Priority != 7 {
		t.Error("Normalize mutated its input")
	}
	if err := Validate(got); err != nil {
		t.Errorf("normalized stack fails validation: %v", err)
	}
}

func TestReorder_FollowsRequestedSequence(t *testing.T) {
	layers := []models.Layer{
		{Name: models.BaseLayer, Priority: 0},
		{Name: "a", Priority: 1},
		{Name: "b", Priority: 2},
		{Name: "c", Priority: 3},
	}
	got := Reorder(layers, []string{"c", "a", "b"})

	wantOrder := []string{models.BaseLayer, "c", "a", "b"}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Fatalf("position %d = %q, want %q", i, got[i].Name, name)
		}
		if got[i].Priority != i {
			t.Errorf("%q priority = %d, want %d", name, got[i].Priority, i)
		}
	}
}

func TestReorder_IgnoresBaseAndUnknownNames(t *testing.T) {
	layers := []models.Layer{
		{Name: models.BaseLayer, Priority: 0},
		{Name: "a", Priority: 1},
		{Name: "b", Priority: 2},
	}
	got := Reorder(layers, []string{"b", models.BaseLayer, "ghost", "a"})

	wantOrder := []string{models.BaseLayer, "b", "a"}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Fatalf("position %d = %q, want %q", i, got[i].Name, name)
		}
	}
	if got[0].Priority != 0 {
		t.Errorf("base priority = %d, want 0", got[0].Priority)
	}
	if err := Validate(got); err != nil {
		t.Errorf("reordered stack fails validation: %v", err)
	}
}

func TestReorder_OmittedLayersKeepOrder(t *testing.T) {
	layers := []models.Layer{
		{Name: models.BaseLayer, Priority: 0},
		{Name: "a", Priority: 1},
		{Name: "b", Priority: 2},
		{Name: "c", Priority: 3},
	}
	got := Reorder(layers, []string{"c"})

	wantOrder := []string{models.BaseLayer, "c", "a", "b"}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Fatalf("position %d = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		layers  []models.Layer
		wantErr error
	}{
		{"valid", []models.Layer{{Name: models.BaseLayer, Priority: 0}, {Name: "a", Priority: 1}, {Name: "b", Priority: 2}}, nil},
		{"valid without base", []models.Layer{{Name: "a", Priority: 1}, {Name: "b", Priority: 2}}, nil},
		{"empty", nil, nil},
		{"duplicate priority", []models.Layer{{Name: "a", Priority: 1}, {Name: "b", Priority: 1}}, ErrDuplicatePriority},
		{"base off zero", []models.Layer{{Name: models.BaseLayer, Priority: 2}, {Name: "a", Priority: 1}}, ErrBasePriority},
		{"gap", []models.Layer{{Name: models.BaseLayer, Priority: 0}, {Name: "a", Priority: 2}}, ErrPriorityGap},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.layers)
			if tc.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}
