// Package agent contains baseline policies. They are reference shooters
// for evaluating the environment and exercising the viewers, not learners.
package agent

import (
	"math/rand"

	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/registry"
	"github.com/vovakirdan/tui-archery/internal/sim"
)

// Random shoots uniformly over the action square.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random policy with its own stream.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// ID implements registry.Policy.
func (p *Random) ID() string {
	return "random"
}

// Describe implements registry.Policy.
func (p *Random) Describe() string {
	return "Uniform random angle and power"
}

// Act implements registry.Policy. The observation is ignored.
func (p *Random) Act(sim.Observation) sim.Action {
	return sim.Action{
		RawAngle: p.rng.Float64()*2 - 1,
		RawPower: p.rng.Float64()*2 - 1,
	}
}

func init() {
	registry.Register("random", func(_ config.Archery, seed int64) registry.Policy {
		return NewRandom(seed)
	})
}
