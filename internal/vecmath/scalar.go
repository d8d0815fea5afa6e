package vecmath

import "math"

// Max returns the larger of a and b. NaN propagates.
func Max(a, b float64) float64 {
	return math.Max(a, b)
}

// Clamp limits v to [lo, hi] as max(lo, min(v, hi)).
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// SmoothStep is Hermite interpolation of x between edge0 and edge1.
//
// Passing edge0 > edge1 yields an inverted ramp (1 below edge1, 0 above
// edge0); terrain code relies on that. Equal edges are not guarded: the
// division follows IEEE-754, so x == edge0 gives NaN.
func SmoothStep(edge0, edge1, x float64) float64 {
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Mix linearly interpolates from a to b by t. t outside [0, 1] extrapolates.
func Mix(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
