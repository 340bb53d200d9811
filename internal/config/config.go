// Package config provides YAML-based configuration loading, presets and
// validation for the archery environment.
package config

// Archery contains every constant the environment is built from.
// It is fixed when an environment is constructed.
type Archery struct {
	World   World   `yaml:"world"`
	Physics Physics `yaml:"physics"`
	Launch  Launch  `yaml:"launch"`
	Target  Target  `yaml:"target"`
	Shot    Shot    `yaml:"shot"`
	Reward  Reward  `yaml:"reward"`
}

// World defines the playfield rectangle in world units.
type World struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	TopMargin float64 `yaml:"top_margin"` // How far above y=0 the arrow may arc before it is out of bounds
}

// Physics defines the integrator parameters.
type Physics struct {
	Gravity  float64 `yaml:"gravity"`   // Downward acceleration, units/tick^2
	MaxTicks int     `yaml:"max_ticks"` // Flight tick budget; 0 derives it from the world
}

// Launch is the fixed point every arrow starts from.
type Launch struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Target defines target size and the rectangle it is placed in.
// Placement ranges are half-open: [min, max).
type Target struct {
	Radius       float64 `yaml:"radius"`
	HitTolerance float64 `yaml:"hit_tolerance"`
	MinX         int     `yaml:"min_x"`
	MaxX         int     `yaml:"max_x"`
	MinY         int     `yaml:"min_y"`
	MaxY         int     `yaml:"max_y"`
}

// Shot defines the ranges raw actions in [-1, 1] are mapped onto.
type Shot struct {
	MinAngleDeg float64 `yaml:"min_angle_deg"`
	MaxAngleDeg float64 `yaml:"max_angle_deg"`
	MinPower    float64 `yaml:"min_power"`
	MaxPower    float64 `yaml:"max_power"`
}

// Reward defines reward shaping.
type Reward struct {
	DistanceScale float64 `yaml:"distance_scale"` // Miss penalty is -distance/scale
}

// HitRadius is the distance below which the arrow counts as a hit.
func (c Archery) HitRadius() float64 {
	return c.Target.Radius + c.Target.HitTolerance
}

// Preset represents a named set of overrides.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
	PresetLegacy Preset = "legacy" // First environment revision: +5 tolerance, distance/10, unscaled action
)

// Presets lists all known presets in display order.
func Presets() []Preset {
	return []Preset{PresetEasy, PresetNormal, PresetHard, PresetLegacy}
}
