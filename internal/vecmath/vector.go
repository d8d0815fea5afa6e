// Package vecmath provides the small vector and scalar helpers used by
// terrain evaluation. Vectors are the mathgl float64 types so callers can
// hand them straight to rendering code.
package vecmath

import "github.com/go-gl/mathgl/mgl64"

// Vec3 is an immutable 3-component vector (x, y, z).
type Vec3 = mgl64.Vec3

// Vec4 is a 4-component vector. The evaluator only uses it as an output
// carrier: (height, riverDistance, 0, 0).
type Vec4 = mgl64.Vec4

// Splat returns a vector with all three components set to s.
func Splat(s float64) Vec3 {
	return Vec3{s, s, s}
}

// Add returns a + b componentwise.
func Add(a, b Vec3) Vec3 {
	return a.Add(b)
}

// Scale returns a with every component multiplied by s.
func Scale(a Vec3, s float64) Vec3 {
	return a.Mul(s)
}

// MulVec returns the componentwise product of a and b.
func MulVec(a, b Vec3) Vec3 {
	return Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
