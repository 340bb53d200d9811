package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-archery/internal/runner"
)

var (
	flagRunPolicy   string
	flagRunEpisodes int
	flagRunWorkers  int
	flagRunSave     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate a policy over many episodes",
	Long: `Run a policy headlessly for a number of episodes and print a summary.

Episodes are spread over worker goroutines; each worker owns its own
environment. For a fixed --seed and --workers the run is reproducible,
and target placement does not depend on --workers at all.

Examples:
  archery run --policy aim --episodes 1000
  archery run --policy random --episodes 10000 --workers 8 --seed 7
  archery run --policy noisy-aim --preset hard --save`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagRunPolicy, "policy", "aim", "Policy to evaluate")
	runCmd.Flags().IntVar(&flagRunEpisodes, "episodes", 100, "Number of episodes")
	runCmd.Flags().IntVar(&flagRunWorkers, "workers", runtime.NumCPU(), "Worker goroutines")
	runCmd.Flags().BoolVar(&flagRunSave, "save", false, "Record the run in the shot log")
}

func runRun(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger("archery")
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := runner.Options{
		Policy:   flagRunPolicy,
		Episodes: flagRunEpisodes,
		Workers:  flagRunWorkers,
		Seed:     seed(),
		Preset:   presetName(),
		Logger:   logger,
	}
	if flagRunSave {
		store, err := openStore(logger, true)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Store = store
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := runner.Run(ctx, cfg, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Policy    %s\n", sum.Policy)
	fmt.Fprintf(out, "Seed      %d\n", opts.Seed)
	fmt.Fprintf(out, "Episodes  %d\n", sum.Tally.Shots)
	fmt.Fprintf(out, "Hits      %d\n", sum.Tally.Hits)
	fmt.Fprintf(out, "Accuracy  %s\n", sum.Tally.Label())
	fmt.Fprintf(out, "Reward    %.3f mean, %.1f total\n", sum.Tally.MeanReward(), sum.Tally.RewardSum)
	if sum.RunID != "" {
		fmt.Fprintf(out, "Run ID    %s\n", sum.RunID)
	}
	return nil
}
