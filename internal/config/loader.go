package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = "archery.yaml"

// Load loads the archery configuration and validates it.
// Search order: customPath -> ~/.archery/configs/archery.yaml -> ./configs/archery.yaml -> embedded default
func Load(customPath string) (Archery, error) {
	cfg, err := load(customPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func load(customPath string) (Archery, error) {
	// Start from defaults so partial files only override what they name
	cfg := Default()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath(fileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = Default()
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", fileName)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = Default()
	}

	if err := yaml.Unmarshal(defaultArcheryYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".archery", "configs", filename)
}

// Marshal renders a configuration back to YAML.
func Marshal(cfg Archery) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// ParsePreset converts a preset name. The empty string means no preset.
func ParsePreset(name string) (Preset, error) {
	if name == "" {
		return "", nil
	}
	for _, p := range Presets() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown preset %q (want easy, normal, hard or legacy)", name)
}

// ApplyPreset modifies the config based on a preset.
func ApplyPreset(cfg *Archery, preset Preset) {
	switch preset {
	case PresetEasy:
		cfg.Target.Radius = 30
		cfg.Target.HitTolerance = 15
	case PresetHard:
		cfg.Target.Radius = 12
		cfg.Target.HitTolerance = 3
		cfg.World.TopMargin = 0
	case PresetLegacy:
		cfg.Target.Radius = 20
		cfg.Target.HitTolerance = 5
		cfg.Reward.DistanceScale = 10
		// Raw action read as degrees, speed as half the raw power.
		cfg.Shot = Shot{MinAngleDeg: -1, MaxAngleDeg: 1, MinPower: -0.5, MaxPower: 0.5}
	}
}
