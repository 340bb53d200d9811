// Package runner evaluates a policy over many episodes in parallel.
// Each worker owns one environment and one policy instance; nothing is
// shared between workers except the result slice, indexed by episode.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/registry"
	"github.com/vovakirdan/tui-archery/internal/sim"
	"github.com/vovakirdan/tui-archery/internal/storage"
)

// ShotStore persists shot logs. *storage.Store satisfies it.
type ShotStore interface {
	CreateRun(run storage.Run) (string, error)
	SaveShots(shots []storage.Shot) error
}

// Options configures a batch run.
type Options struct {
	Policy   string
	Episodes int
	Workers  int
	Seed     int64
	Preset   string
	Source   string    // Recorded with the run; defaults to "run"
	Store    ShotStore // Optional
	Logger   *log.Logger
}

// Episode is the outcome of one evaluated shot.
type Episode struct {
	Index  int
	Action sim.Action
	Result sim.StepResult
}

// Summary is what a finished run reports.
type Summary struct {
	RunID    string // Empty unless the run was saved
	Policy   string
	Tally    Tally
	Episodes []Episode
	Elapsed  time.Duration
}

// EpisodeSeed derives the placement seed of an episode. Targets depend
// only on the run seed and the episode index, not on the worker count.
func EpisodeSeed(runSeed int64, episode int) int64 {
	return runSeed*1_000_003 + int64(episode)
}

// WorkerSeed derives the policy seed of a worker.
func WorkerSeed(runSeed int64, worker int) int64 {
	return runSeed ^ int64(worker+1)*0x5DEECE66D
}

// Run evaluates opts.Policy for opts.Episodes shots. Cancellation is
// honored between episodes; a flight in progress always completes.
func Run(ctx context.Context, cfg config.Archery, opts Options) (Summary, error) {
	if opts.Episodes <= 0 {
		return Summary{}, fmt.Errorf("runner: episodes must be positive, got %d", opts.Episodes)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Workers > opts.Episodes {
		opts.Workers = opts.Episodes
	}
	if opts.Source == "" {
		opts.Source = "run"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	if !registry.Exists(opts.Policy) {
		return Summary{}, fmt.Errorf("runner: unknown policy %q", opts.Policy)
	}

	logger.Info("Starting run",
		"policy", opts.Policy, "episodes", opts.Episodes, "workers", opts.Workers, "seed", opts.Seed)
	start := time.Now()

	episodes := make([]Episode, opts.Episodes)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < opts.Workers; w++ {
		w := w
		g.Go(func() error {
			return work(ctx, cfg, opts, w, episodes)
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Policy:   opts.Policy,
		Episodes: episodes,
		Elapsed:  time.Since(start),
	}
	for _, ep := range episodes {
		sum.Tally.Add(ep.Result.Hit, ep.Result.Reward)
	}

	logger.Info("Run finished",
		"shots", sum.Tally.Shots, "hits", sum.Tally.Hits,
		"accuracy", sum.Tally.Label(), "elapsed", sum.Elapsed.Round(time.Millisecond))

	if opts.Store != nil {
		id, err := save(opts, episodes)
		if err != nil {
			return sum, err
		}
		sum.RunID = id
		logger.Info("Run saved", "id", id)
	}
	return sum, nil
}

// work runs every episode whose index falls on this worker.
func work(ctx context.Context, cfg config.Archery, opts Options, worker int, out []Episode) error {
	env, err := sim.New(cfg, sim.WithSeed(EpisodeSeed(opts.Seed, worker)))
	if err != nil {
		return err
	}
	defer env.Close()

	policy, err := registry.Create(opts.Policy, cfg, WorkerSeed(opts.Seed, worker))
	if err != nil {
		return err
	}

	for i := worker; i < len(out); i += opts.Workers {
		if err := ctx.Err(); err != nil {
			return err
		}

		obs, _ := env.ResetWithSeed(EpisodeSeed(opts.Seed, i))
		action := policy.Act(obs)
		res, err := env.Step(action)
		if err != nil {
			return fmt.Errorf("runner: episode %d: %w", i, err)
		}
		out[i] = Episode{Index: i, Action: action, Result: res}
	}
	return nil
}

func save(opts Options, episodes []Episode) (string, error) {
	id, err := opts.Store.CreateRun(storage.Run{
		Policy: opts.Policy,
		Source: opts.Source,
		Preset: opts.Preset,
		Seed:   opts.Seed,
	})
	if err != nil {
		return "", err
	}

	shots := make([]storage.Shot, 0, len(episodes))
	for _, ep := range episodes {
		shots = append(shots, ShotRecord(id, ep.Index, ep.Action, ep.Result))
	}
	if err := opts.Store.SaveShots(shots); err != nil {
		return "", err
	}
	return id, nil
}

// ShotRecord converts a resolved step into a shot-log row.
func ShotRecord(runID string, episode int, a sim.Action, res sim.StepResult) storage.Shot {
	return storage.Shot{
		RunID:    runID,
		Episode:  episode,
		RawAngle: a.RawAngle,
		RawPower: a.RawPower,
		AngleDeg: res.Info.AngleDeg,
		Power:    res.Info.Power,
		TargetX:  res.Info.Target.X,
		TargetY:  res.Info.Target.Y,
		Hit:      res.Hit,
		Reward:   res.Reward,
		Ticks:    res.Info.Ticks,
		Distance: res.Info.Distance,
	}
}
