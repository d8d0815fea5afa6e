// World generation: evaluates terrain height at every hex of a grid laid
// over a small patch of the unit sphere.
package world

import (
	"cmp"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/talgya/heightfield/internal/noise"
	"github.com/talgya/heightfield/internal/terrain"
	"github.com/talgya/heightfield/internal/vecmath"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Radius      int        // Hex grid radius (~22 for ~1500 hexes)
	Seed        int64      // Noise seed, used as given (0 is a valid seed)
	Spacing     float64    // Distance between hex centers on the tangent patch
	Noise       noise.Kind // Noise backend
	Persistence float64    // Per-octave amplitude falloff
	Options     terrain.Options
}

// DefaultGenConfig returns a reasonable starting configuration with a
// fresh random seed.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:      22,
		Seed:        RandomSeed(),
		Spacing:     0.01,
		Noise:       noise.KindSimplex,
		Persistence: noise.DefaultPersistence,
		Options:     terrain.DefaultOptions(),
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Radius = 5
	cfg.Seed = 42
	return cfg
}

// RandomSeed picks a seed for callers that don't configure one.
func RandomSeed() int64 {
	return rand.Int63()
}

// Generate samples terrain for every hex within cfg.Radius. The same config
// always produces the same map.
func Generate(cfg GenConfig) (*Map, error) {
	seed := cfg.Seed

	// noise1/noise2 feed the evaluator; a third layer stands in for the
	// hydrology pass that normally supplies the river signals.
	noise1, noise2, err := noise.NewPair(cfg.Noise, seed, cfg.Persistence)
	if err != nil {
		return nil, fmt.Errorf("terrain noise: %w", err)
	}
	hydro, err := noise.New(cfg.Noise, seed+2, cfg.Persistence)
	if err != nil {
		return nil, fmt.Errorf("hydrology noise: %w", err)
	}

	m := NewMap(cfg.Radius)
	m.Seed = seed

	for q := -cfg.Radius; q <= cfg.Radius; q++ {
		for r := -cfg.Radius; r <= cfg.Radius; r++ {
			coord := HexCoord{Q: q, R: r}
			if ring(coord) > cfg.Radius {
				continue
			}

			loc := SpherePoint(coord, cfg.Spacing)
			riverValue, riverDistance := hydrology(hydro, loc)
			res := terrain.Height(noise1, noise2, loc, loc, cfg.Options, riverValue, riverDistance)

			m.Set(&Hex{
				Coord:         coord,
				Elevation:     res.Height,
				RiverDistance: res.RiverDistance,
				RiverValue:    riverValue,
			})
		}
	}

	slog.Debug("world generated", "seed", seed, "hexes", humanize.Comma(int64(m.HexCount())))
	return m, nil
}

// SpherePoint projects a hex center from the tangent plane at +Z onto the
// unit sphere. The result serves as both surface normal and noise location.
func SpherePoint(coord HexCoord, spacing float64) vecmath.Vec3 {
	x, y := coord.Cartesian()
	return vecmath.Vec3{x * spacing, y * spacing, 1}.Normalize()
}

// hydrology derives a continent mask and a river-distance field from noise.
// Zero crossings of the distance layer trace river centerlines.
func hydrology(src noise.Sampler, loc vecmath.Vec3) (riverValue, riverDistance float64) {
	riverValue = vecmath.Clamp(0.5+src.Sample(vecmath.Scale(loc, 1.5), 4)*0.5, 0, 1)
	channel := vecmath.Add(vecmath.Scale(loc, 40), vecmath.Splat(17.3))
	riverDistance = vecmath.Clamp(math.Abs(src.Sample(channel, 3))*4, 0, 1)
	return riverValue, riverDistance
}

// LandCount returns the number of hexes above sea level.
func LandCount(m *Map) int {
	n := 0
	for _, hex := range m.Hexes {
		if hex.IsLand() {
			n++
		}
	}
	return n
}

// CoastalHexes returns land hexes adjacent to ocean, ordered by coordinate.
func CoastalHexes(m *Map) []HexCoord {
	var coast []HexCoord

	for coord, hex := range m.Hexes {
		if !hex.IsLand() {
			continue
		}
		for _, neighbor := range coord.Neighbors() {
			nh := m.Get(neighbor)
			if nh != nil && !nh.IsLand() {
				coast = append(coast, coord)
				break
			}
		}
	}

	slices.SortFunc(coast, func(a, b HexCoord) int {
		if c := cmp.Compare(a.Q, b.Q); c != 0 {
			return c
		}
		return cmp.Compare(a.R, b.R)
	})
	return coast
}

// Summary describes the elevation distribution of a map.
type Summary struct {
	Hexes         int     `json:"hexes"`
	Land          int     `json:"land"`
	Ocean         int     `json:"ocean"`
	Coastal       int     `json:"coastal"`
	MinElevation  float64 `json:"min_elevation"`
	MaxElevation  float64 `json:"max_elevation"`
	MeanElevation float64 `json:"mean_elevation"`
}

// Summarize computes a Summary. An empty map yields the zero Summary.
func Summarize(m *Map) Summary {
	s := Summary{Hexes: m.HexCount()}
	if s.Hexes == 0 {
		return s
	}

	s.MinElevation = math.Inf(1)
	s.MaxElevation = math.Inf(-1)
	total := 0.0
	for _, hex := range m.Hexes {
		if hex.IsLand() {
			s.Land++
		}
		s.MinElevation = math.Min(s.MinElevation, hex.Elevation)
		s.MaxElevation = math.Max(s.MaxElevation, hex.Elevation)
		total += hex.Elevation
	}
	s.Ocean = s.Hexes - s.Land
	s.Coastal = len(CoastalHexes(m))
	s.MeanElevation = total / float64(s.Hexes)
	return s
}
