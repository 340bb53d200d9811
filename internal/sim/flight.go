package sim

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/core"
)

// Course holds everything a flight needs: gravity, the world bounds the
// arrow may occupy, the hit radius and the tick budget.
type Course struct {
	Gravity   float64
	Width     float64
	Height    float64
	TopMargin float64
	HitRadius float64
	Budget    int
}

// CourseFor builds the course described by cfg.
func CourseFor(cfg config.Archery) Course {
	return Course{
		Gravity:   cfg.Physics.Gravity,
		Width:     cfg.World.Width,
		Height:    cfg.World.Height,
		TopMargin: cfg.World.TopMargin,
		HitRadius: cfg.HitRadius(),
		Budget:    TickBudget(cfg),
	}
}

// TickBudget returns the maximum number of ticks one flight may take.
//
// An arrow that stays in bounds must stay inside the vertical band
// [-top_margin, height]. The longest it can do that is rising from the
// floor to the ceiling and falling back, about 2*sqrt(2*band/g) ticks
// whatever the launch speed. The budget doubles that and adds slack for
// the discrete integrator.
func TickBudget(cfg config.Archery) int {
	if cfg.Physics.MaxTicks > 0 {
		return cfg.Physics.MaxTicks
	}
	band := cfg.World.Height + cfg.World.TopMargin
	return int(math.Ceil(4*math.Sqrt(2*band/cfg.Physics.Gravity))) + 16
}

// Flight is the terminal state of one simulated shot.
type Flight struct {
	Position core.Vec2
	Velocity core.Vec2
	Ticks    int
	Outcome  Outcome
	Distance float64 // Distance to the target center at the final tick
	Reach    float64 // Largest x the arrow reached
}

// Hit reports whether the flight ended on the target.
func (f Flight) Hit() bool {
	return f.Outcome == OutcomeHit
}

// TickFunc observes a flight tick after the termination check.
// out is OutcomeNone for every tick except the last.
type TickFunc func(tick int, pos, vel core.Vec2, out Outcome)

// Fly integrates a shot from start with initial velocity vel until it hits
// target or leaves the course. onTick may be nil.
//
// If the budget runs out the returned Flight holds the last state and the
// error wraps ErrTickBudgetExceeded.
func (c Course) Fly(start, vel, target core.Vec2, onTick TickFunc) (Flight, error) {
	pos := start
	reach := start.X

	for tick := 1; tick <= c.Budget; tick++ {
		pos, vel = Advance(pos, vel, c.Gravity)
		if pos.X > reach {
			reach = pos.X
		}

		out := c.Check(pos, target)
		if onTick != nil {
			onTick(tick, pos, vel, out)
		}
		if out != OutcomeNone {
			return Flight{
				Position: pos,
				Velocity: vel,
				Ticks:    tick,
				Outcome:  out,
				Distance: pos.Dist(target),
				Reach:    reach,
			}, nil
		}
	}

	f := Flight{
		Position: pos,
		Velocity: vel,
		Ticks:    c.Budget,
		Outcome:  OutcomeNone,
		Distance: pos.Dist(target),
		Reach:    reach,
	}
	return f, fmt.Errorf("%w: no terminal state after %d ticks (last position %.2f, %.2f)",
		ErrTickBudgetExceeded, c.Budget, pos.X, pos.Y)
}
