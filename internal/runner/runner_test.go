package runner

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/vovakirdan/tui-archery/internal/agent"
	"github.com/vovakirdan/tui-archery/internal/config"
	"github.com/vovakirdan/tui-archery/internal/sim"
	"github.com/vovakirdan/tui-archery/internal/storage"
)

func quiet() *log.Logger {
	return log.New(io.Discard)
}

func TestTally(t *testing.T) {
	var tally Tally
	assert.Equal(t, "0.0%", tally.Label())
	assert.Zero(t, tally.MeanReward())

	tally.Add(true, 100)
	tally.Add(false, -2)
	tally.Add(true, 100)

	assert.Equal(t, 3, tally.Shots)
	assert.Equal(t, 2, tally.Hits)
	assert.InDelta(t, 2.0/3, tally.Accuracy(), 1e-12)
	assert.Equal(t, "66.7%", tally.Label())
	assert.InDelta(t, 66.0, tally.MeanReward(), 1e-12)
}

func TestRunRejectsBadOptions(t *testing.T) {
	ctx := context.Background()

	_, err := Run(ctx, config.Default(), Options{Policy: "aim", Episodes: 0, Logger: quiet()})
	assert.Error(t, err)

	_, err = Run(ctx, config.Default(), Options{Policy: "no-such", Episodes: 3, Logger: quiet()})
	assert.Error(t, err)

	bad := config.Default()
	bad.Physics.Gravity = 0
	_, err = Run(ctx, bad, Options{Policy: "aim", Episodes: 3, Logger: quiet()})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRunIsReproducible(t *testing.T) {
	opts := Options{Policy: "random", Episodes: 40, Workers: 4, Seed: 11, Logger: quiet()}

	a, err := Run(context.Background(), config.Default(), opts)
	require.NoError(t, err)
	b, err := Run(context.Background(), config.Default(), opts)
	require.NoError(t, err)

	require.Len(t, a.Episodes, 40)
	assert.Equal(t, a.Tally, b.Tally)
	for i := range a.Episodes {
		assert.Equal(t, i, a.Episodes[i].Index)
		assert.Equal(t, a.Episodes[i], b.Episodes[i])
	}
}

func TestTargetsIndependentOfWorkerCount(t *testing.T) {
	cfg := config.Default()
	one, err := Run(context.Background(), cfg, Options{Policy: "aim", Episodes: 12, Workers: 1, Seed: 3, Logger: quiet()})
	require.NoError(t, err)
	many, err := Run(context.Background(), cfg, Options{Policy: "aim", Episodes: 12, Workers: 5, Seed: 3, Logger: quiet()})
	require.NoError(t, err)

	// The aim policy is deterministic, so the whole run matches.
	for i := range one.Episodes {
		assert.Equal(t, one.Episodes[i].Result, many.Episodes[i].Result)
	}
	assert.Equal(t, one.Tally, many.Tally)
}

func TestEpisodeTargetsMatchSeededEnv(t *testing.T) {
	sum, err := Run(context.Background(), config.Default(), Options{Policy: "random", Episodes: 5, Workers: 2, Seed: 8, Logger: quiet()})
	require.NoError(t, err)

	env, err := sim.New(config.Default())
	require.NoError(t, err)
	for i, ep := range sum.Episodes {
		_, info := env.ResetWithSeed(EpisodeSeed(8, i))
		assert.Equal(t, info.Target, ep.Result.Info.Target)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, config.Default(), Options{Policy: "random", Episodes: 10, Workers: 2, Logger: quiet()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSurfacesBudgetErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Physics.MaxTicks = 1

	_, err := Run(context.Background(), cfg, Options{Policy: "random", Episodes: 3, Logger: quiet()})
	assert.ErrorIs(t, err, sim.ErrTickBudgetExceeded)
}

func TestRunSavesShots(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "shots.db"))
	require.NoError(t, err)
	defer store.Close()

	sum, err := Run(context.Background(), config.Default(), Options{
		Policy:   "aim",
		Episodes: 6,
		Workers:  3,
		Seed:     2,
		Preset:   "normal",
		Store:    store,
		Logger:   quiet(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, sum.RunID)

	run, err := store.RunByID(sum.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "aim", run.Policy)
	assert.Equal(t, "run", run.Source)
	assert.Equal(t, "normal", run.Preset)

	shots, err := store.RunShots(sum.RunID)
	require.NoError(t, err)
	require.Len(t, shots, 6)
	hits := 0
	for i, sh := range shots {
		assert.Equal(t, i, sh.Episode)
		assert.Equal(t, sum.Episodes[i].Result.Reward, sh.Reward)
		if sh.Hit {
			hits++
		}
	}
	assert.Equal(t, sum.Tally.Hits, hits)
}
