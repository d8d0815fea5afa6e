package world

import (
	"math"
	"testing"

	"github.com/talgya/heightfield/internal/noise"
	"github.com/talgya/heightfield/internal/terrain"
)

func TestGenerateHexCount(t *testing.T) {
	cfg := SmallTestConfig()
	m, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	// 3R(R+1)+1 hexes in a radius-R hex grid.
	want := 3*cfg.Radius*(cfg.Radius+1) + 1
	if m.HexCount() != want {
		t.Errorf("HexCount = %d, want %d", m.HexCount(), want)
	}
	for coord := range m.Hexes {
		if !m.InBounds(coord) {
			t.Errorf("hex %v outside radius %d", coord, cfg.Radius)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := SmallTestConfig()
	a, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for coord, ha := range a.Hexes {
		hb := b.Get(coord)
		if hb == nil {
			t.Fatalf("hex %v missing from second run", coord)
		}
		if *ha != *hb {
			t.Fatalf("hex %v differs: %+v vs %+v", coord, *ha, *hb)
		}
	}
}

func TestGenerateZeroSeedIsUsedAsGiven(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Radius = 2
	cfg.Seed = 0

	a, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if a.Seed != 0 || b.Seed != 0 {
		t.Fatalf("seeds = %d, %d; want 0", a.Seed, b.Seed)
	}
	for coord, ha := range a.Hexes {
		if hb := b.Get(coord); hb == nil || *ha != *hb {
			t.Fatalf("hex %v differs between runs", coord)
		}
	}
}

func TestGenerateMatchesEvaluator(t *testing.T) {
	cfg := SmallTestConfig()
	m, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}

	n1, n2, err := noise.NewPair(cfg.Noise, cfg.Seed, cfg.Persistence)
	if err != nil {
		t.Fatal(err)
	}
	hydro, err := noise.New(cfg.Noise, cfg.Seed+2, cfg.Persistence)
	if err != nil {
		t.Fatal(err)
	}

	coord := HexCoord{Q: 2, R: -1}
	loc := SpherePoint(coord, cfg.Spacing)
	rv, rd := hydrology(hydro, loc)
	want := terrain.Height(n1, n2, loc, loc, cfg.Options, rv, rd)

	got := m.Get(coord)
	if got.Elevation != want.Height || got.RiverDistance != want.RiverDistance {
		t.Errorf("hex %v = %+v, want %+v", coord, *got, want)
	}
}

func TestGenerateUnknownNoise(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Noise = "worley"
	if _, err := Generate(cfg); err == nil {
		t.Error("expected error for unknown noise kind")
	}
}

func TestSpherePointIsUnit(t *testing.T) {
	for _, c := range []HexCoord{{0, 0}, {3, -2}, {-5, 5}} {
		p := SpherePoint(c, 0.05)
		if l := p.Len(); math.Abs(l-1) > 1e-12 {
			t.Errorf("SpherePoint(%v) length = %v", c, l)
		}
	}
	if p := SpherePoint(HexCoord{}, 0.05); p[2] != 1 {
		t.Errorf("origin should project to +Z, got %v", p)
	}
}

func TestHydrologyRange(t *testing.T) {
	src, err := noise.New(noise.KindSimplex, 9, noise.DefaultPersistence)
	if err != nil {
		t.Fatal(err)
	}
	for q := -10; q <= 10; q++ {
		rv, rd := hydrology(src, SpherePoint(HexCoord{Q: q, R: -q / 2}, 0.02))
		if rv < 0 || rv > 1 || rd < 0 || rd > 1 {
			t.Errorf("hydrology out of range at q=%d: %v, %v", q, rv, rd)
		}
	}
}

func TestCoastalHexes(t *testing.T) {
	m := NewMap(2)
	for q := -2; q <= 2; q++ {
		for r := -2; r <= 2; r++ {
			c := HexCoord{Q: q, R: r}
			if !m.InBounds(c) {
				continue
			}
			elev := -0.001
			if q >= 1 {
				elev = 0.001
			}
			m.Set(&Hex{Coord: c, Elevation: elev})
		}
	}

	coast := CoastalHexes(m)
	for _, c := range coast {
		if c.Q != 1 {
			t.Errorf("unexpected coastal hex %v", c)
		}
	}
	if len(coast) == 0 {
		t.Fatal("expected coastal hexes along q=1")
	}
	for i := 1; i < len(coast); i++ {
		if coast[i-1].R >= coast[i].R {
			t.Errorf("coastal hexes not ordered: %v", coast)
		}
	}

	s := Summarize(m)
	if s.Land+s.Ocean != s.Hexes || s.Coastal != len(coast) {
		t.Errorf("inconsistent summary: %+v", s)
	}
	if s.MinElevation != -0.001 || s.MaxElevation != 0.001 {
		t.Errorf("elevation range = [%v, %v]", s.MinElevation, s.MaxElevation)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(NewMap(3)); s != (Summary{}) {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestNeighborsAndDistanceRing(t *testing.T) {
	origin := HexCoord{}
	for _, n := range origin.Neighbors() {
		if ring(n) != 1 {
			t.Errorf("neighbor %v not on ring 1", n)
		}
	}
	if ring(HexCoord{Q: 2, R: -3}) != 3 {
		t.Errorf("ring(2,-3) = %d, want 3", ring(HexCoord{Q: 2, R: -3}))
	}
}
