// Package registry provides a global registry for policy factories.
// Policies register themselves in init() functions, allowing the CLI and
// the viewers to discover and instantiate them without hardcoded
// dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/sim"
)

// Policy chooses a shot from an observation. It stands in for the
// external decision maker; implementations need not learn.
type Policy interface {
	// ID returns the unique identifier the policy is registered under.
	ID() string

	// Describe returns a one-line human-readable summary.
	Describe() string

	// Act picks an action for the observation returned by Reset.
	Act(obs sim.Observation) sim.Action
}

// PolicyInfo contains metadata about a registered policy.
type PolicyInfo struct {
	ID          string
	Description string
}

// Factory creates a policy for the given environment config. Stochastic
// policies must draw only from a stream seeded with seed.
type Factory func(cfg config.Archery, seed int64) Policy

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a policy factory to the registry.
// Panics if a policy with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: policy %q already registered", id))
	}

	factories[id] = f

	// Get description by creating a temporary instance
	descriptions[id] = f(config.Default(), 0).Describe()
}

// List returns information about all registered policies, sorted by ID.
func List() []PolicyInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]PolicyInfo, 0, len(factories))
	for id := range factories {
		result = append(result, PolicyInfo{
			ID:          id,
			Description: descriptions[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new policy by its ID.
// Returns an error if the policy ID is not registered.
func Create(id string, cfg config.Archery, seed int64) (Policy, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown policy %q", id)
	}

	return f(cfg, seed), nil
}

// Exists checks if a policy with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
