// Package terrain evaluates procedural terrain height at a point.
//
// Evaluation is a pure function of its inputs: two coherent noise
// generators, the sample location, world-generation options and the
// precomputed river signals. Nothing is cached between calls, so callers
// can evaluate any number of points concurrently over shared samplers.
package terrain

import "github.com/talgya/heightfield/internal/vecmath"

// TerrainHeightMaxish maps the unitless noise composite into world height units.
const TerrainHeightMaxish = 0.0008

// Options are the world-generation tuning parameters. The evaluator never
// modifies them.
type Options struct {
	// Scales are per-axis frequency multipliers:
	// x = continents, y = mountains, z = fine detail.
	Scales vecmath.Vec3 `json:"scales"`
	// Influences are per-axis amplitude weights, same axes as Scales.
	Influences vecmath.Vec3 `json:"influences"`
	// HeightOffset is a global vertical bias added after scaling.
	HeightOffset float64 `json:"height_offset"`
}

// DefaultOptions returns unit scales and influences with no offset.
func DefaultOptions() Options {
	return Options{
		Scales:     vecmath.Vec3{1, 1, 1},
		Influences: vecmath.Vec3{1, 1, 1},
	}
}

// Result is the output of a height evaluation.
type Result struct {
	Height        float64 `json:"height"`
	RiverDistance float64 `json:"river_distance"`
}

// Vec4 returns the result in the (height, riverDistance, 0, 0) layout
// expected by hosts that take a 4-vector.
func (r Result) Vec4() vecmath.Vec4 {
	return vecmath.Vec4{r.Height, r.RiverDistance, 0, 0}
}
