// Package world samples terrain heights over a hex grid.
// Uses axial coordinates (q, r); each hex center is projected onto the
// unit sphere before evaluation.
package world

import "math"

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Cartesian returns the hex center in planar coordinates with unit spacing.
func (h HexCoord) Cartesian() (x, y float64) {
	x = float64(h.Q) + float64(h.R)*0.5
	y = float64(h.R) * math.Sqrt(3.0) / 2.0
	return x, y
}

// Hex is a single sampled tile.
type Hex struct {
	Coord HexCoord `json:"coord"`

	// Elevation in world height units; 0 is sea level.
	Elevation float64 `json:"elevation"`
	// RiverDistance as adjusted by the evaluator (1 under the ocean).
	RiverDistance float64 `json:"river_distance"`
	// RiverValue is the hydrology mask the hex was evaluated with.
	RiverValue float64 `json:"river_value"`
}

// IsLand reports whether the hex sits above sea level.
func (h *Hex) IsLand() bool {
	return h.Elevation > 0
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// ring returns max(|q|, |r|, |s|), the ring index of a coordinate.
func ring(h HexCoord) int {
	q, r, s := abs(h.Q), abs(h.R), abs(h.S())
	m := q
	if r > m {
		m = r
	}
	if s > m {
		m = s
	}
	return m
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
