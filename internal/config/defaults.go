package config

import (
	_ "embed"
)

//go:embed defaults/archery.yaml
var defaultArcheryYAML []byte

// Default returns the default archery configuration.
func Default() Archery {
	return Archery{
		World: World{
			Width:     800,
			Height:    600,
			TopMargin: 50,
		},
		Physics: Physics{
			Gravity:  0.5,
			MaxTicks: 0,
		},
		Launch: Launch{
			X: 50,
			Y: 550, // height - 50
		},
		Target: Target{
			Radius:       20,
			HitTolerance: 10,
			MinX:         400,
			MaxX:         750, // width - 50
			MinY:         100,
			MaxY:         500, // height - 100
		},
		Shot: Shot{
			MinAngleDeg: 0,
			MaxAngleDeg: 85,
			MinPower:    15,
			MaxPower:    60,
		},
		Reward: Reward{
			DistanceScale: 100,
		},
	}
}

// DefaultYAML returns the embedded default YAML document.
func DefaultYAML() []byte {
	return defaultArcheryYAML
}
