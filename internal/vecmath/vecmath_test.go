package vecmath

import (
	"math"
	"testing"
)

func TestVectorOps(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -5, 0.5}

	if got := Add(a, b); got != (Vec3{5, -3, 3.5}) {
		t.Errorf("Add = %v", got)
	}
	if got := Scale(a, 2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v", got)
	}
	if got := MulVec(a, b); got != (Vec3{4, -10, 1.5}) {
		t.Errorf("MulVec = %v", got)
	}
	if got := Splat(1.2); got != (Vec3{1.2, 1.2, 1.2}) {
		t.Errorf("Splat = %v", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-3, 0, 1, 0},
		{7, 0, 1, 1},
		{1, 1, 1, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestSmoothStep(t *testing.T) {
	tests := []struct {
		name            string
		edge0, edge1, x float64
		want            float64
	}{
		{"below", 0, 1, -0.5, 0},
		{"at edge0", 0, 1, 0, 0},
		{"midpoint", 0, 1, 0.5, 0.5},
		{"quarter", 0, 1, 0.25, 0.15625},
		{"at edge1", 0, 1, 1, 1},
		{"above", 0, 1, 2, 1},
		{"inverted above edge0", 0.000005, 0.000003, 0.000006, 0},
		{"inverted below edge1", 0.000005, 0.000003, 0.000001, 1},
		{"inverted midpoint", 1, 0, 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SmoothStep(tt.edge0, tt.edge1, tt.x)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("SmoothStep(%v, %v, %v) = %v, want %v", tt.edge0, tt.edge1, tt.x, got, tt.want)
			}
		})
	}
}

// TestSmoothStepInvertedIsMonotonic checks the ocean mask shape: rising as x falls.
func TestSmoothStepInvertedIsMonotonic(t *testing.T) {
	prev := -1.0
	for i := 0; i <= 100; i++ {
		x := -float64(i) * 0.0000000002
		v := SmoothStep(0, -0.00000001, x)
		if v < prev {
			t.Fatalf("inverted SmoothStep decreased at x=%g: %v < %v", x, v, prev)
		}
		prev = v
	}
	if prev != 1 {
		t.Errorf("expected saturation to 1, got %v", prev)
	}
}

func TestSmoothStepEqualEdges(t *testing.T) {
	if v := SmoothStep(1, 1, 1); !math.IsNaN(v) {
		t.Errorf("SmoothStep(1, 1, 1) = %v, want NaN", v)
	}
	if v := SmoothStep(1, 1, 2); v != 1 {
		t.Errorf("SmoothStep(1, 1, 2) = %v, want 1", v)
	}
	if v := SmoothStep(1, 1, 0); v != 0 {
		t.Errorf("SmoothStep(1, 1, 0) = %v, want 0", v)
	}
}

func TestMix(t *testing.T) {
	if got := Mix(2, 4, 0); got != 2 {
		t.Errorf("Mix t=0 = %v", got)
	}
	if got := Mix(2, 4, 1); got != 4 {
		t.Errorf("Mix t=1 = %v", got)
	}
	if got := Mix(2, 4, 0.5); got != 3 {
		t.Errorf("Mix t=0.5 = %v", got)
	}
	// Extrapolation is allowed.
	if got := Mix(2, 4, 2); got != 6 {
		t.Errorf("Mix t=2 = %v", got)
	}
}

func TestMaxPropagatesNaN(t *testing.T) {
	if got := Max(0.05, -1); got != 0.05 {
		t.Errorf("Max = %v", got)
	}
	if got := Max(math.NaN(), 0); !math.IsNaN(got) {
		t.Errorf("Max(NaN, 0) = %v, want NaN", got)
	}
}
