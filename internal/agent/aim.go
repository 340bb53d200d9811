package agent

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/core"
	"github.com/vovakirdan/tui-archery/internal/registry"
	"github.com/vovakirdan/tui-archery/internal/sim"
)

// Search grid parameters
const (
	coarseSteps  = 33 // Samples per axis over [-1, 1]
	refineSteps  = 9  // Samples per axis around the best candidate
	refineRounds = 3
)

// Aim decodes the target from the observation and searches the action
// square with the same flight model the environment uses.
type Aim struct {
	cfg    config.Archery
	course sim.Course
	launch core.Vec2
}

// NewAim creates a search-based policy for the given world.
func NewAim(cfg config.Archery) *Aim {
	return &Aim{
		cfg:    cfg,
		course: sim.CourseFor(cfg),
		launch: core.V(cfg.Launch.X, cfg.Launch.Y),
	}
}

// ID implements registry.Policy.
func (p *Aim) ID() string {
	return "aim"
}

// Describe implements registry.Policy.
func (p *Aim) Describe() string {
	return "Grid search over simulated shots, picks the closest pass"
}

// Act implements registry.Policy.
func (p *Aim) Act(obs sim.Observation) sim.Action {
	target := core.V(obs[2]*p.cfg.World.Width, obs[3]*p.cfg.World.Height)

	best := sim.Action{}
	bestScore := math.Inf(1)
	consider := func(a sim.Action) {
		if s := p.score(a, target); s < bestScore {
			best, bestScore = a, s
		}
	}

	step := 2.0 / float64(coarseSteps-1)
	for i := 0; i < coarseSteps; i++ {
		for j := 0; j < coarseSteps; j++ {
			consider(sim.Action{RawAngle: -1 + float64(i)*step, RawPower: -1 + float64(j)*step})
		}
	}

	for round := 0; round < refineRounds && bestScore > 0; round++ {
		center := best
		half := step
		step = 2 * half / float64(refineSteps-1)
		for i := 0; i < refineSteps; i++ {
			for j := 0; j < refineSteps; j++ {
				consider(sim.Action{
					RawAngle: core.ClampF(center.RawAngle-half+float64(i)*step, -1, 1),
					RawPower: core.ClampF(center.RawPower-half+float64(j)*step, -1, 1),
				})
			}
		}
	}
	return best
}

// score is 0 for a hit, otherwise the closest approach to the target.
func (p *Aim) score(a sim.Action, target core.Vec2) float64 {
	angle, power := sim.MapAction(a, p.cfg.Shot)
	closest := math.Inf(1)
	f, err := p.course.Fly(p.launch, sim.LaunchVelocity(angle, power), target,
		func(_ int, pos, _ core.Vec2, _ sim.Outcome) {
			if d := pos.Dist(target); d < closest {
				closest = d
			}
		})
	if err != nil {
		return math.Inf(1)
	}
	if f.Hit() {
		return 0
	}
	return closest
}

// NoisyAim perturbs Aim's choice with Gaussian noise, giving an imperfect
// but competent shooter.
type NoisyAim struct {
	aim   *Aim
	rng   *rand.Rand
	sigma float64
}

// DefaultNoise is the standard deviation applied to each raw action axis.
const DefaultNoise = 0.04

// NewNoisyAim creates a noisy search policy with its own stream.
func NewNoisyAim(cfg config.Archery, seed int64, sigma float64) *NoisyAim {
	return &NoisyAim{
		aim:   NewAim(cfg),
		rng:   rand.New(rand.NewSource(seed)),
		sigma: sigma,
	}
}

// ID implements registry.Policy.
func (p *NoisyAim) ID() string {
	return "noisy-aim"
}

// Describe implements registry.Policy.
func (p *NoisyAim) Describe() string {
	return "Grid search with Gaussian aiming error"
}

// Act implements registry.Policy. The result may fall slightly outside
// [-1, 1]; the environment extrapolates.
func (p *NoisyAim) Act(obs sim.Observation) sim.Action {
	a := p.aim.Act(obs)
	a.RawAngle += p.rng.NormFloat64() * p.sigma
	a.RawPower += p.rng.NormFloat64() * p.sigma
	return a
}

func init() {
	registry.Register("aim", func(cfg config.Archery, _ int64) registry.Policy {
		return NewAim(cfg)
	})
	registry.Register("noisy-aim", func(cfg config.Archery, seed int64) registry.Policy {
		return NewNoisyAim(cfg, seed, DefaultNoise)
	})
}
