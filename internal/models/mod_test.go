package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func sampleMod() Mod {
	return Mod{
		ID:          "mod-1",
		Name:        "Star Guardian Pack",
		Version:     "2.1.0",
		Authors:     []string{"riju", "kda"},
		Enabled:     true,
		InstalledAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Layers: []Layer{
			{Name: BaseLayer, Priority: 0, Overrides: map[string]map[string]string{
				DefaultLocale: {"loadscreen": "base.png"},
			}},
			{Name: "chromas", Priority: 1, Overrides: map[string]map[string]string{
				"en_US":       {"loadscreen": "chroma_en.png"},
				DefaultLocale: {"voicepack": "chroma_vo.wem"},
			}},
		},
	}
}

func TestModClone_DeepCopiesLayers(t *testing.T) {
	orig := sampleMod()
	clone := orig.Clone()

	clone.Authors[0] = "someone-else"
	clone.Layers[1].Priority = 9
	clone.Layers[1].Overrides["en_US"]["loadscreen"] = "tampered.png"

	if orig.Authors[0] != "riju" {
		t.Errorf("clone shares authors slice with original")
	}
	if orig.Layers[1].Priority != 1 {
		t.Errorf("clone shares layers slice with original")
	}
	if orig.Layers[1].Overrides["en_US"]["loadscreen"] != "chroma_en.png" {
		t.Errorf("clone shares override maps with original")
	}
}

func TestModClone_EqualToOriginal(t *testing.T) {
	orig := sampleMod()
	clone := orig.Clone()
	if !reflect.DeepEqual(orig, clone) {
		t.Errorf("clone differs from original:\n got %+v\nwant %+v", clone, orig)
	}
}

func TestCloneMods_PreservesNil(t *testing.T) {
	if got := CloneMods(nil); got != nil {
		t.Errorf("expected nil for nil input, got %v", got)
	}
	if got := CloneMods([]Mod{}); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestProfileClone_DeepCopiesEnabledMods(t *testing.T) {
	orig := Profile{ID: "p1", Name: "Ranked", EnabledMods: []string{"a", "b"}}
	clone := orig.Clone()
	clone.EnabledMods[0] = "z"
	if orig.EnabledMods[0] != "a" {
		t.Error("clone shares enabledMods slice with original")
	}
}

func TestMod_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(sampleMod())
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	s := string(data)
	for _, key := range []string{`"id"`, `"name"`, `"enabled"`, `"installedAt"`, `"layers"`, `"overrides"`, `"priority"`} {
		if !strings.Contains(s, key) {
			t.Errorf("expected %s in payload, got: %s", key, s)
		}
	}
}

func TestProfile_JSONFieldNames(t *testing.T) {
	p := Profile{ID: "p1", Name: "Ranked", EnabledMods: []string{"a"}, CreatedAt: time.Now()}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	s := string(data)
	for _, key := range []string{`"id"`, `"name"`, `"enabledMods"`, `"createdAt"`, `"lastUsedAt"`} {
		if !strings.Contains(s, key) {
			t.Errorf("expected %s in payload, got: %s", key, s)
		}
	}
}
