package domain

import "math"

// Coordinate is a point in layout-pixel space. The origin is the top-left
// corner of the store layout, so y grows toward the front of the store.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the straight-line distance to other. The layout is
// treated as an open floor, there is no obstacle avoidance.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	dx := other.X - c.X
	dy := other.Y - c.Y
	return math.Hypot(dx, dy)
}
