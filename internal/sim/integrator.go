package sim

import (
	"math"

	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/core"
)

// Action is a raw decision in [-1, 1] x [-1, 1].
// Values outside the range are extrapolated, not rejected.
type Action struct {
	RawAngle float64
	RawPower float64
}

// Advance moves the arrow one tick: position first, then gravity.
// The order is part of the trajectory shape and must not be swapped.
func Advance(pos, vel core.Vec2, gravity float64) (core.Vec2, core.Vec2) {
	pos = pos.Add(vel)
	vel.Y += gravity
	return pos, vel
}

// MapAction maps a raw action onto a launch angle in radians and a power.
func MapAction(a Action, shot config.Shot) (angle, power float64) {
	deg := core.Lerp(a.RawAngle, shot.MinAngleDeg, shot.MaxAngleDeg)
	power = core.Lerp(a.RawPower, shot.MinPower, shot.MaxPower)
	return deg * math.Pi / 180, power
}

// LaunchVelocity converts an angle above the horizon and a power into a
// velocity. Up is -Y.
func LaunchVelocity(angle, power float64) core.Vec2 {
	return core.V(math.Cos(angle)*power, -math.Sin(angle)*power)
}

// ActionFor is the inverse of MapAction for in-range angles and powers.
func ActionFor(angleDeg, power float64, shot config.Shot) Action {
	return Action{
		RawAngle: unlerp(angleDeg, shot.MinAngleDeg, shot.MaxAngleDeg),
		RawPower: unlerp(power, shot.MinPower, shot.MaxPower),
	}
}

func unlerp(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return (v-lo)/(hi-lo)*2 - 1
}
