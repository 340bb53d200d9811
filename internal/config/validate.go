package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is wrapped by every configuration error.
var ErrInvalid = errors.New("invalid archery config")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Validate reports the first configuration error found, or nil.
func (c Archery) Validate() error {
	w, h := c.World.Width, c.World.Height

	if !finite(w, h, c.World.TopMargin, c.Physics.Gravity, c.Launch.X, c.Launch.Y,
		c.Target.Radius, c.Target.HitTolerance, c.Shot.MinAngleDeg, c.Shot.MaxAngleDeg,
		c.Shot.MinPower, c.Shot.MaxPower, c.Reward.DistanceScale) {
		return invalid("all values must be finite")
	}
	if w <= 0 || h <= 0 {
		return invalid("world dimensions must be positive, got %gx%g", w, h)
	}
	if c.World.TopMargin < 0 {
		return invalid("top margin must not be negative, got %g", c.World.TopMargin)
	}
	if c.Physics.Gravity <= 0 {
		return invalid("gravity must be positive, got %g", c.Physics.Gravity)
	}
	if c.Physics.MaxTicks < 0 {
		return invalid("max ticks must not be negative, got %d", c.Physics.MaxTicks)
	}
	if c.Launch.X < 0 || c.Launch.X > w || c.Launch.Y < 0 || c.Launch.Y > h {
		return invalid("launch point (%g, %g) is outside the world", c.Launch.X, c.Launch.Y)
	}
	if c.Target.Radius < 0 || c.Target.HitTolerance < 0 {
		return invalid("target radius and hit tolerance must not be negative")
	}

	t := c.Target
	if t.MaxX <= t.MinX {
		return invalid("target x range [%d, %d) is empty or inverted", t.MinX, t.MaxX)
	}
	if t.MaxY <= t.MinY {
		return invalid("target y range [%d, %d) is empty or inverted", t.MinY, t.MaxY)
	}
	if t.MinX < 0 || float64(t.MaxX) > w || t.MinY < 0 || float64(t.MaxY) > h {
		return invalid("target placement rectangle lies outside the %gx%g world", w, h)
	}

	if c.Shot.MaxAngleDeg < c.Shot.MinAngleDeg {
		return invalid("angle range [%g, %g] is inverted", c.Shot.MinAngleDeg, c.Shot.MaxAngleDeg)
	}
	if c.Shot.MaxPower < c.Shot.MinPower {
		return invalid("power range [%g, %g] is inverted", c.Shot.MinPower, c.Shot.MaxPower)
	}
	if c.Reward.DistanceScale <= 0 {
		return invalid("reward distance scale must be positive, got %g", c.Reward.DistanceScale)
	}
	return nil
}
