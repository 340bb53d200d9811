package sim

import "github.com/vovakirdan/tui-archery/internal/core"

// Outcome is the result of the per-tick termination check.
type Outcome int

const (
	OutcomeNone        Outcome = iota // Still flying
	OutcomeHit                        // Within hit radius of the target center
	OutcomeOutOfBounds                // Left the world
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeHit:
		return "hit"
	case OutcomeOutOfBounds:
		return "out-of-bounds"
	default:
		return "unknown"
	}
}

// Check decides whether the flight ends at pos. A hit is tested before the
// bounds so an arrow touching the target on the tick it leaves the world
// still scores.
func (c Course) Check(pos, target core.Vec2) Outcome {
	if pos.Dist(target) < c.HitRadius {
		return OutcomeHit
	}
	if pos.X > c.Width || pos.X < 0 || pos.Y > c.Height || pos.Y < -c.TopMargin {
		return OutcomeOutOfBounds
	}
	return OutcomeNone
}
