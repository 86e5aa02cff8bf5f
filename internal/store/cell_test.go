package store

import (
	"reflect"
	"testing"

	"github.com/wardrobe-mods/wardrobe/internal/models"
)

func TestCell_ReadBeforeWrite(t *testing.T) {
	c := NewCell(models.CloneMods)
	v, loaded := c.Read()
	if loaded {
		t.Error("empty cell reports loaded")
	}
	if v != nil {
		t.Errorf("expected zero value, got %v", v)
	}
}

func TestCell_WriteThenRead(t *testing.T) {
	c := NewCell(models.CloneMods)
	c.Write([]models.Mod{{ID: "a"}, {ID: "b"}})

	v, loaded := c.Read()
	if !loaded {
		t.Fatal("cell not loaded after write")
	}
	if len(v) != 2 || v[0].ID != "a" {
		t.Errorf("unexpected value %v", v)
	}
}

func TestCell_ReadReturnsIsolatedCopy(t *testing.T) {
	c := NewCell(models.CloneMods)
	c.Write([]models.Mod{{ID: "a", Name: "original"}})

	v, _ := c.Read()
	v[0].Name = "tampered"

	again, _ := c.Read()
	if again[0].Name != "original" {
		t.Error("mutating a read value leaked into the cell")
	}
}

func TestCell_WriteDetachesFromCaller(t *testing.T) {
	c := NewCell(models.CloneMods)
	in := []models.Mod{{ID: "a", Name: "original"}}
	c.Write(in)
	in[0].Name = "tampered"

	v, _ := c.Read()
	if v[0].Name != "original" {
		t.Error("cell shares memory with the written slice")
	}
}

func TestCell_PatchVisibleImmediately(t *testing.T) {
	c := NewCell(models.CloneMods)
	c.Write([]models.Mod{{ID: "m1", Enabled: false}})

	c.Patch(func(mods []models.Mod) []models.Mod {
		for i := range mods {
			if mods[i].ID == "m1" {
				mods[i].Enabled = true
			}
		}
		return mods
	})

	v, _ := c.Read()
	if !v[0].Enabled {
		t.Error("patch not visible on the very next read")
	}
}

func TestCell_SnapshotSurvivesLaterWrites(t *testing.T) {
	c := NewCell(models.CloneMods)
	c.Write([]models.Mod{{ID: "a"}})

	snapshot, _ := c.Read()
	c.Write([]models.Mod{{ID: "b"}, {ID: "c"}})

	if len(snapshot) != 1 || snapshot[0].ID != "a" {
		t.Errorf("snapshot changed under us: %v", snapshot)
	}
}

func TestCell_RollbackRestoresExactState(t *testing.T) {
	c := NewCell(models.CloneMods)
	orig := []models.Mod{
		{ID: "a", Enabled: true, Layers: []models.Layer{{Name: models.BaseLayer, Priority: 0}}},
		{ID: "b", Enabled: false},
	}
	c.Write(orig)

	snapshot, _ := c.Read()
	c.Patch(func(mods []models.Mod) []models.Mod {
		mods[0].Enabled = false
		return mods[:1]
	})
	c.Write(snapshot)

	restored, _ := c.Read()
	if !reflect.DeepEqual(restored, orig) {
		t.Errorf("rollback state differs:\n got %+v\nwant %+v", restored, orig)
	}
}

func TestCell_SubscribeReceivesWritesAndPatches(t *testing.T) {
	c := NewCell(func(s string) string { return s })
	var seen []string
	cancel := c.Subscribe(func(v string) { seen = append(seen, v) })
	defer cancel()

	c.Write("one")
	c.Patch(func(string) string { return "two" })

	want := []string{"one", "two"}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("subscriber saw %v, want %v", seen, want)
	}
}

func TestCell_CancelStopsNotifications(t *testing.T) {
	c := NewCell(func(s string) string { return s })
	var count int
	cancel := c.Subscribe(func(string) { count++ })

	c.Write("one")
	cancel()
	c.Write("two")

	if count != 1 {
		t.Errorf("subscriber called %d times after cancel, want 1", count)
	}
}

func TestCell_SubscriberGetsIsolatedCopy(t *testing.T) {
	c := NewCell(models.CloneMods)
	cancel := c.Subscribe(func(mods []models.Mod) {
		if len(mods) > 0 {
			mods[0].Name = "tampered"
		}
	})
	defer cancel()

	c.Write([]models.Mod{{ID: "a", Name: "original"}})

	v, _ := c.Read()
	if v[0].Name != "original" {
		t.Error("subscriber mutation leaked into the cell")
	}
}
