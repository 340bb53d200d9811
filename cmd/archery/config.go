package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/sim"
)

var flagConfigCheck bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the search order and --preset are applied.

Search order:
  --config <path>
  ~/.archery/configs/archery.yaml
  ./configs/archery.yaml
  built-in defaults

Examples:
  archery config
  archery config --preset legacy
  archery config --config ./my-world.yaml --check`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigCheck, "check", false, "Also fire one smoke-test shot through the environment")
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, string(data))

	if !flagConfigCheck {
		return nil
	}

	env, err := sim.New(cfg, sim.WithSeed(seed()))
	if err != nil {
		return err
	}
	defer env.Close()

	_, info := env.Reset()
	res, err := env.Step(sim.Action{})
	if err != nil {
		return fmt.Errorf("smoke test: %w", err)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "# tick budget %d; centre shot at target (%.0f, %.0f): %s after %d ticks, reward %.2f\n",
		env.TickBudget(), info.Target.X, info.Target.Y, res.Info.Outcome, res.Info.Ticks, res.Reward)
	return nil
}
