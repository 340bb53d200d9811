// archery is a single-shot archery environment for decision-making
// policies, with a terminal viewer and a shot log.
//
// Usage:
//
//	archery run              - Evaluate a policy headlessly
//	archery watch            - Watch a policy shoot in the terminal
//	archery serve            - Start SSH server for remote viewing
//	archery stats            - Show shot-log statistics
//	archery policies         - List available policies
//	archery config           - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Custom configuration YAML
//	--preset <name>     - Preset: easy, normal, hard, legacy
//	--seed <value>      - RNG seed for reproducible runs
//	--db <path>         - Shot-log database (default: ~/.archery/shots.db)
//	--log-level <lvl>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import policies to register them
	_ "github.com/vovakirdan/tui-archery/internal/agent"
	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagPreset   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "archery",
	Short: "Archery - a single-shot projectile environment in your terminal",
	Long: `Archery is a single-shot projectile environment: a policy picks a
launch angle and power, the arrow flies under gravity, and the episode
ends when it hits the target or leaves the world.

Available commands:
  run       - Evaluate a policy over many episodes
  watch     - Watch a policy shoot, shot after shot
  serve     - Start SSH server for remote viewing
  stats     - View shot-log statistics
  policies  - Show all available policies
  config    - Print the effective configuration

Examples:
  archery policies
  archery run --policy aim --episodes 1000 --workers 4 --save
  archery watch --policy noisy-aim
  archery serve --ssh :2222
  archery stats --tui`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom configuration YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Preset: easy, normal, hard, legacy")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.archery/shots.db", "Path to shot-log database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the process logger from --log-level.
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// loadConfig loads the configuration and applies --preset.
func loadConfig() (config.Archery, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Archery{}, err
	}
	if flagPreset != "" {
		preset, err := config.ParsePreset(flagPreset)
		if err != nil {
			return config.Archery{}, err
		}
		config.ApplyPreset(&cfg, preset)
		if err := cfg.Validate(); err != nil {
			return config.Archery{}, err
		}
	}
	return cfg, nil
}

// presetName returns the preset recorded with runs.
func presetName() string {
	if flagPreset == "" {
		return string(config.PresetNormal)
	}
	return flagPreset
}

// seed returns --seed, or a clock-derived seed when it is unset.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// openStore opens the shot log, warning instead of failing when optional.
func openStore(logger *log.Logger, required bool) (*storage.Store, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		if required {
			return nil, err
		}
		logger.Warn("could not open shot log, shots will not be recorded", "error", err)
		return nil, nil
	}
	return store, nil
}
