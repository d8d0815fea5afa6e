// Package noise provides coherent 3D noise samplers for terrain evaluation.
//
// A Sampler must be deterministic, continuous in its input point, roughly
// bounded to [-1, 1], and safe for concurrent read-only use. Adding octaves
// only layers higher-frequency detail on top of the lower ones.
package noise

import "github.com/talgya/heightfield/internal/vecmath"

// Sampler samples coherent noise at a 3D point using the given number of octaves.
type Sampler interface {
	Sample(p vecmath.Vec3, octaves int) float64
}

// SamplerFunc adapts an ordinary function to the Sampler interface.
type SamplerFunc func(p vecmath.Vec3, octaves int) float64

// Sample calls f(p, octaves).
func (f SamplerFunc) Sample(p vecmath.Vec3, octaves int) float64 {
	return f(p, octaves)
}

// Constant is a Sampler that returns the same value everywhere.
// Mostly useful as a stub in tests.
type Constant float64

// Sample returns c regardless of input.
func (c Constant) Sample(vecmath.Vec3, int) float64 {
	return float64(c)
}
