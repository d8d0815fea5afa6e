package noise

import (
	"errors"
	"fmt"
	"strings"

	perlin "github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/heightfield/internal/vecmath"
)

// DefaultPersistence is the per-octave amplitude falloff used when none is configured.
const DefaultPersistence = 0.5

var (
	// ErrUnknownKind is returned when a noise backend name is not recognized.
	ErrUnknownKind = errors.New("unknown noise kind")
	// ErrInvalidPersistence is returned for a persistence outside (0, 1).
	// At 1 or above every octave is at least as loud as the last and the
	// sum no longer stays near [-1, 1].
	ErrInvalidPersistence = errors.New("persistence must be in (0, 1)")
)

// Kind selects the base noise function underneath a Fractal.
type Kind string

const (
	KindSimplex Kind = "simplex" // OpenSimplex, the default
	KindPerlin  Kind = "perlin"  // Classic Perlin gradient noise
)

// ParseKind maps a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindSimplex:
		return KindSimplex, nil
	case KindPerlin:
		return KindPerlin, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Source is a single-octave 3D noise function.
type Source interface {
	Eval3(x, y, z float64) float64
}

// perlinSource adapts go-perlin to Source. The generator is built with a
// single octave; layering is done by Fractal.
type perlinSource struct {
	p *perlin.Perlin
}

func (s perlinSource) Eval3(x, y, z float64) float64 {
	return s.p.Noise3D(x, y, z)
}

// Fractal layers octaves of a Source. Each octave doubles the frequency and
// scales the amplitude by Persistence. The sum is not normalized, so raising
// the octave count adds detail without rescaling the low frequencies.
//
// Fractal holds no mutable state after construction and may be shared
// across goroutines.
type Fractal struct {
	source      Source
	persistence float64
}

// NewFractal wraps an arbitrary Source. Non-positive persistence selects
// DefaultPersistence; callers taking persistence from configuration should
// go through New, which also rejects values of 1 or more.
func NewFractal(source Source, persistence float64) *Fractal {
	if persistence <= 0 {
		persistence = DefaultPersistence
	}
	return &Fractal{source: source, persistence: persistence}
}

// ValidatePersistence reports whether p is usable as a per-octave falloff.
// Zero means "use DefaultPersistence" and is accepted.
func ValidatePersistence(p float64) error {
	if p == 0 || (p > 0 && p < 1) {
		return nil
	}
	return fmt.Errorf("%w: got %v", ErrInvalidPersistence, p)
}

// New creates a seeded Fractal of the given kind. A zero persistence
// selects DefaultPersistence.
func New(kind Kind, seed int64, persistence float64) (*Fractal, error) {
	if err := ValidatePersistence(persistence); err != nil {
		return nil, err
	}
	switch kind {
	case KindSimplex, "":
		return NewFractal(opensimplex.New(seed), persistence), nil
	case KindPerlin:
		// alpha and beta only matter for go-perlin's own octave loop, which
		// is disabled here (n = 1).
		return NewFractal(perlinSource{p: perlin.NewPerlin(2, 2, 1, seed)}, persistence), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// NewPair creates the two independent generators the evaluator needs:
// noise1 seeded with seed and noise2 with seed+1.
func NewPair(kind Kind, seed int64, persistence float64) (noise1, noise2 *Fractal, err error) {
	noise1, err = New(kind, seed, persistence)
	if err != nil {
		return nil, nil, err
	}
	noise2, err = New(kind, seed+1, persistence)
	if err != nil {
		return nil, nil, err
	}
	return noise1, noise2, nil
}

// Persistence returns the per-octave amplitude falloff.
func (f *Fractal) Persistence() float64 {
	return f.persistence
}

// Sample sums octaves layers of the source at p. Zero or negative octave
// counts yield 0.
func (f *Fractal) Sample(p vecmath.Vec3, octaves int) float64 {
	total := 0.0
	amplitude := 1.0
	frequency := 1.0

	for i := 0; i < octaves; i++ {
		total += f.source.Eval3(p[0]*frequency, p[1]*frequency, p[2]*frequency) * amplitude
		amplitude *= f.persistence
		frequency *= 2
	}

	return total
}
