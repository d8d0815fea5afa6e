package terrain

import (
	"math"

	"github.com/talgya/heightfield/internal/noise"
	"github.com/talgya/heightfield/internal/vecmath"
)

// Sea-level thresholds in world height units.
const (
	oceanFade      = -0.00000001 // below this the river channel is fully suppressed
	terraceFloor   = 0.000001    // terracing only applies strictly above this
	terraceBand    = 0.000005    // height of one terrace step
	terraceEdge    = 0.000003    // where the step mask starts rising within a band
	riverThreshold = 0.004       // river distances below this are the channel itself
	riverPlainCut  = 0.1         // relative reduction applied beyond the river-plane level
	riverMaxDepth  = 0.0000004
)

// Evaluator computes terrain heights. HeightScale converts the unitless
// composite into world units; production code uses Default.
type Evaluator struct {
	HeightScale float64
}

// Default is the evaluator configured with TerrainHeightMaxish.
var Default = Evaluator{HeightScale: TerrainHeightMaxish}

// Height evaluates terrain with the Default evaluator.
func Height(noise1, noise2 noise.Sampler, pointNormal, noiseLoc vecmath.Vec3, opts Options, riverValue, riverDistance float64) Result {
	return Default.Height(noise1, noise2, pointNormal, noiseLoc, opts, riverValue, riverDistance)
}

// Height returns the terrain height and adjusted river distance at noiseLoc.
//
// noise1 shapes the terrain and noise2 drives mountain suppression and
// terracing; they must be independently seeded. riverValue is the large
// scale river/continent mask in [0, 1] and riverDistance the normalized
// distance to the nearest river centerline (smaller is closer).
//
// pointNormal is accepted for hosts that pass the surface normal but is not
// used by the current formula.
//
// The call is total over finite input. NaN and Inf propagate unchecked.
func (e Evaluator) Height(noise1, noise2 noise.Sampler, pointNormal, noiseLoc vecmath.Vec3, opts Options, riverValue, riverDistance float64) Result {
	w := warpDomain(noise1, noiseLoc, opts.Scales)

	c := continents(noise1, w, opts, riverValue)
	r := mountainRoughness(noise1, w, opts)
	s := mountainSuppression(noise2, w, opts)
	ranges := mountainRanges(c, r)

	value := compositeValue(noise1, w, opts, c, r, s, ranges)
	value = e.scaleToWorld(value, ranges, r, s, opts.HeightOffset)
	value, riverDistance = carveRivers(noise1, w, value, riverDistance)
	value = terrace(noise2, noiseLoc, value)

	return Result{Height: value, RiverDistance: riverDistance}
}

// warpedPoints are the sample coordinates shared by the later stages.
type warpedPoints struct {
	pz vecmath.Vec3 // unwarped, for fine detail
	op vecmath.Vec3 // warped at continent frequency
	p  vecmath.Vec3 // warped at mountain frequency
}

// warpDomain offsets the sample location along the diagonal by two small
// noise lookups so the noise lattice axes don't show through.
func warpDomain(noise1 noise.Sampler, loc, scales vecmath.Vec3) warpedPoints {
	continentWarp := math.Abs(noise1.Sample(vecmath.Scale(loc, 0.8*(0.5+scales.X()*0.5)), 1)) * 0.8
	continentPoint := vecmath.Add(loc, vecmath.Splat(continentWarp+1.2))

	mountainWarp := noise1.Sample(vecmath.Scale(loc, 50.2*scales.Y()), 1) * 0.001
	mountainPoint := vecmath.Add(loc, vecmath.Splat(mountainWarp+1.2))

	return warpedPoints{
		pz: vecmath.Scale(loc, 8.0),
		op: vecmath.Scale(continentPoint, 8.0),
		p:  vecmath.Scale(mountainPoint, 8.0),
	}
}

// continents blends the river/continent mask with octave-8 noise into a
// land/ocean signal centered near zero.
func continents(noise1 noise.Sampler, w warpedPoints, opts Options, riverValue float64) float64 {
	influence := opts.Influences.X()
	// Squaring the result with its own sign was tried and rejected.
	return (riverValue-0.5)*(2.0+influence*4.0) +
		noise1.Sample(vecmath.Scale(w.op, opts.Scales.X()*0.5), 8)*influence*0.3
}

type roughness struct {
	large float64 // mountain-scale roughness
	mid   float64 // fine-detail roughness
	ridge float64 // secondary lookup feeding the range base
}

func mountainRoughness(noise1 noise.Sampler, w warpedPoints, opts Options) roughness {
	sy, sz := opts.Scales.Y(), opts.Scales.Z()
	iy, iz := opts.Influences.Y(), opts.Influences.Z()
	return roughness{
		large: noise1.Sample(vecmath.Scale(w.p, 32.0*sy), 6) * iy,
		mid:   noise1.Sample(vecmath.Scale(w.pz, 1024.0*sz), 6) * iz,
		ridge: noise1.Sample(vecmath.Scale(w.p, 64.0*sy), 6) * iy,
	}
}

// suppression holds the regional mountain attenuation masks. a and b are
// floored so they only ever attenuate, never flip sign.
type suppression struct {
	a     float64
	b     float64
	baseC float64 // unfloored, used for the erosion notch
}

// mountainSuppression samples noise2 so the masks stay decorrelated from
// the continents signal.
func mountainSuppression(noise2 noise.Sampler, w warpedPoints, opts Options) suppression {
	sy, iy := opts.Scales.Y(), opts.Influences.Y()

	baseA := noise2.Sample(vecmath.Scale(w.p, 9.0*sy), 6) * iy
	baseB := noise2.Sample(vecmath.Scale(w.p, 500.0*sy), 4) * iy
	baseC := noise2.Sample(vecmath.Scale(w.p, 120.0*sy), 4) * iy

	a := vecmath.Max(baseA, 0.0)
	a = a + 0.05
	return suppression{
		a:     a,
		b:     vecmath.Max(baseB, 0.05),
		baseC: baseC,
	}
}

// mountainRanges shapes ridges and ravines with a 1.1 power curve.
func mountainRanges(continents float64, r roughness) float64 {
	base := continents*0.9 + r.ridge*0.1
	ranges := 1.0 - math.Pow(math.Abs(base*0.8), 1.1)
	// Squaring ranges here was tried and rejected.
	return ranges + r.large*0.2
}

// compositeValue combines continents and mountains into the unitless height.
// Mountains are clamped so they never cut below the continent baseline.
func compositeValue(noise1 noise.Sampler, w warpedPoints, opts Options, c float64, r roughness, s suppression, ranges float64) float64 {
	sz, iz := opts.Scales.Z(), opts.Influences.Z()

	value := c*(0.1+s.a) + vecmath.Max(ranges*s.a+(r.mid*0.01*s.a), 0.0) - 0.05

	value += noise1.Sample(vecmath.Scale(w.p, 50000.0*sz), 4) * 0.0001 * iz

	notch := 1.0 + noise1.Sample(vecmath.Scale(w.pz, 12000.0*sz), 2)*0.1*iz
	value += s.b*0.02 - math.Abs(s.baseC)*0.1*notch

	return value
}

// scaleToWorld converts the composite into world units and applies the
// global offset.
func (e Evaluator) scaleToWorld(value, ranges float64, r roughness, s suppression, heightOffset float64) float64 {
	value *= e.HeightScale
	value += ranges * (r.mid * 0.02) * e.HeightScale * s.a
	return value + heightOffset
}

// carveRivers cuts river channels near sea level and returns the adjusted
// height and river distance. Under the ocean the river distance is pushed
// to 1 so no channel shows; well above sea level the carve is bypassed.
func carveRivers(noise1 noise.Sampler, w warpedPoints, value, riverDistance float64) (float64, float64) {
	riverDistance = (riverDistance - riverThreshold) / (1.0 - riverThreshold)

	planeLevel := 0.01 + 0.03*noise1.Sample(vecmath.Scale(w.p, 236.0), 5)
	if riverDistance > planeLevel {
		riverDistance = vecmath.Max(riverDistance-riverPlainCut, 0.0)/(1.0-riverPlainCut) + planeLevel
	}

	riverDepth := vecmath.SmoothStep(0.99, 1.0, 1.0-riverDistance) * riverMaxDepth
	oceanMultiplier := vecmath.SmoothStep(0.0, oceanFade, value)
	riverDistance = vecmath.Mix(riverDistance, 1.0, oceanMultiplier)

	value = vecmath.Mix(value*riverDistance, value, vecmath.SmoothStep(1.0, 2.3, value*2000.0)+0.0001)
	value = value - riverDepth

	return value, riverDistance
}

// terrace quantizes land into fixed-height steps wherever a high-frequency
// noise2 field is low enough. Values at or below terraceFloor pass through.
func terrace(noise2 noise.Sampler, loc vecmath.Vec3, value float64) float64 {
	if value > terraceFloor {
		n := noise2.Sample(vecmath.Scale(loc, 20000.0), 2)
		remainder := math.Mod(value-terraceFloor, terraceBand)
		multiplier := vecmath.SmoothStep(terraceBand, terraceEdge, remainder)
		value = vecmath.Mix(value-remainder*multiplier, value, vecmath.Clamp((n+0.4)*4.0, 0.0, 1.0))
	}
	// Adding a flat 1m step wherever the noise exceeded -0.4 was tried and rejected.
	return value
}
