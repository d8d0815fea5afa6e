package persistence

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/talgya/heightfield/internal/noise"
	"github.com/talgya/heightfield/internal/terrain"
	"github.com/talgya/heightfield/internal/vecmath"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndLoadPreset(t *testing.T) {
	db := openTestDB(t)

	in := Preset{
		Name: "archipelago",
		Options: terrain.Options{
			Scales:       vecmath.Vec3{1.5, 0.8, 1},
			Influences:   vecmath.Vec3{0.4, 1.2, 0.9},
			HeightOffset: -0.0001,
		},
		Noise: "Perlin",
		Seed:  1234,
	}
	saved, err := db.SavePreset(in)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected generated ID")
	}
	if saved.Noise != noise.KindPerlin {
		t.Errorf("noise = %q, want normalized %q", saved.Noise, noise.KindPerlin)
	}
	if saved.Persistence != noise.DefaultPersistence {
		t.Errorf("persistence = %v, want default", saved.Persistence)
	}

	got, err := db.Preset("archipelago")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Options != in.Options {
		t.Errorf("options = %+v, want %+v", got.Options, in.Options)
	}
	if got.Seed != 1234 || got.ID != saved.ID {
		t.Errorf("loaded %+v, saved %+v", got, saved)
	}
}

func TestSavePresetUpsertKeepsID(t *testing.T) {
	db := openTestDB(t)

	first, err := db.SavePreset(Preset{Name: "default", Options: terrain.DefaultOptions(), Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	second, err := db.SavePreset(Preset{Name: "default", Options: terrain.DefaultOptions(), Seed: 2})
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert changed ID: %s -> %s", first.ID, second.ID)
	}
	if second.Seed != 2 {
		t.Errorf("seed = %d, want 2", second.Seed)
	}

	all, err := db.Presets()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("got %d presets, want 1", len(all))
	}
}

func TestSavePresetValidation(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.SavePreset(Preset{}); err == nil {
		t.Error("expected error for unnamed preset")
	}
	if _, err := db.SavePreset(Preset{Name: "x", Noise: "worley"}); !errors.Is(err, noise.ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}

	for _, pers := range []float64{-0.5, 1, 3} {
		_, err := db.SavePreset(Preset{Name: "loud", Persistence: pers})
		if !errors.Is(err, ErrInvalidPreset) || !errors.Is(err, noise.ErrInvalidPersistence) {
			t.Errorf("persistence %v: err = %v, want ErrInvalidPreset", pers, err)
		}
	}
	if _, err := db.Preset("loud"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("rejected preset was stored: %v", err)
	}

	saved, err := db.SavePreset(Preset{Name: "quiet", Persistence: 0.7})
	if err != nil {
		t.Fatal(err)
	}
	if saved.Persistence != 0.7 {
		t.Errorf("persistence = %v, want 0.7", saved.Persistence)
	}
}

func TestPresetNotFound(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.Preset("missing"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("Preset err = %v, want ErrPresetNotFound", err)
	}
	if err := db.DeletePreset("missing"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("DeletePreset err = %v, want ErrPresetNotFound", err)
	}
}

func TestPresetsOrderedAndDelete(t *testing.T) {
	db := openTestDB(t)

	for _, name := range []string{"tundra", "alpine", "mesa"} {
		if _, err := db.SavePreset(Preset{Name: name, Options: terrain.DefaultOptions()}); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.DeletePreset("mesa"); err != nil {
		t.Fatal(err)
	}

	all, err := db.Presets()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].Name != "alpine" || all[1].Name != "tundra" {
		t.Errorf("presets = %+v", all)
	}
}

func TestPresetSamplers(t *testing.T) {
	db := openTestDB(t)
	p, err := db.SavePreset(Preset{Name: "s", Options: terrain.DefaultOptions(), Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	n1, n2, err := p.Samplers()
	if err != nil {
		t.Fatal(err)
	}
	loc := vecmath.Vec3{0, 0, 1}
	a := terrain.Height(n1, n2, loc, loc, p.Options, 0.6, 0.5)
	b := terrain.Height(n1, n2, loc, loc, p.Options, 0.6, 0.5)
	if a != b {
		t.Errorf("preset samplers not deterministic: %+v vs %+v", a, b)
	}
}

func TestMeta(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.GetMeta("seed"); err == nil {
		t.Error("expected error for missing key")
	}
	if err := db.SaveMeta("seed", "42"); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveMeta("seed", "43"); err != nil {
		t.Fatal(err)
	}
	v, err := db.GetMeta("seed")
	if err != nil || v != "43" {
		t.Errorf("GetMeta = %q, %v", v, err)
	}
}
