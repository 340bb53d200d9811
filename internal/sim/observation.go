package sim

import "github.com/vovakirdan/tui-archery/internal/core"

// Observation is arrow x, arrow y, target x, target y, each divided by the
// matching world dimension. Values are not clamped: an arrow past the right
// or bottom edge encodes above 1.
type Observation [4]float64

// Encode builds an observation from world positions.
func Encode(arrow, target core.Vec2, width, height float64) Observation {
	return Observation{
		arrow.X / width,
		arrow.Y / height,
		target.X / width,
		target.Y / height,
	}
}

// Arrow returns the normalized arrow position.
func (o Observation) Arrow() core.Vec2 {
	return core.V(o[0], o[1])
}

// Target returns the normalized target position.
func (o Observation) Target() core.Vec2 {
	return core.V(o[2], o[3])
}
