package sim

import (
	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/core"
)

// IntSource supplies uniform integer draws in [0, n). *rand.Rand satisfies it.
type IntSource interface {
	Intn(n int) int
}

// Scenario places targets uniformly on integer coordinates inside
// [MinX, MaxX) x [MinY, MaxY).
type Scenario struct {
	MinX, MaxX int
	MinY, MaxY int
}

// ScenarioFor returns the scenario described by the target section of cfg.
func ScenarioFor(cfg config.Archery) Scenario {
	return Scenario{
		MinX: cfg.Target.MinX,
		MaxX: cfg.Target.MaxX,
		MinY: cfg.Target.MinY,
		MaxY: cfg.Target.MaxY,
	}
}

// Generate draws a target position. The x coordinate is drawn first.
// Ranges must be non-empty; config validation guarantees that.
func (s Scenario) Generate(rng IntSource) core.Vec2 {
	x := s.MinX + rng.Intn(s.MaxX-s.MinX)
	y := s.MinY + rng.Intn(s.MaxY-s.MinY)
	return core.V(float64(x), float64(y))
}
