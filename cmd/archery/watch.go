package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-archery/internal/platform/tui"
	"github.com/vovakirdan/tui-archery/internal/registry"
	"github.com/vovakirdan/tui-archery/internal/storage"
)

var (
	flagWatchPolicy string
	flagWatchShots  int
	flagWatchFPS    int
	flagWatchNoSave bool
	flagWatchPick   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a policy shoot in the terminal",
	Long: `Fire one shot after another with the chosen policy and replay each
flight in the terminal, with a running accuracy label.

Controls:
  P/Space    - Pause
  N/Right    - Skip to the end of the current flight
  Ctrl+S     - Save a screenshot to ~/.archery/screenshots
  Q/Ctrl+C   - Quit

Examples:
  archery watch
  archery watch --policy random --shots 20
  archery watch --policy noisy-aim --fps 60 --preset easy
  archery watch --pick`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchPolicy, "policy", "aim", "Policy to watch")
	watchCmd.Flags().IntVar(&flagWatchShots, "shots", 0, "Stop after this many shots (0 = until quit)")
	watchCmd.Flags().IntVar(&flagWatchFPS, "fps", tui.DefaultFPS, "Replay rate (frames per second)")
	watchCmd.Flags().BoolVar(&flagWatchNoSave, "no-save", false, "Do not record shots in the shot log")
	watchCmd.Flags().BoolVar(&flagWatchPick, "pick", false, "Pick the policy and preset from a menu")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	// Get terminal size early so the menu and first frame fit
	width, height := tui.DefaultWidth, tui.DefaultHeight
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	if flagWatchPick {
		choice, err := tui.RunMenu(flagPreset, width, height)
		if err != nil {
			return err
		}
		if choice.Quit {
			return nil
		}
		flagWatchPolicy = choice.Policy
		flagPreset = string(choice.Preset)
	}

	if !registry.Exists(flagWatchPolicy) {
		return fmt.Errorf("unknown policy %q (run 'archery policies' to list them)", flagWatchPolicy)
	}

	logger, err := newLogger("archery")
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := tui.ViewerOptions{
		Policy: flagWatchPolicy,
		Shots:  flagWatchShots,
		FPS:    flagWatchFPS,
		Seed:   seed(),
		Preset: presetName(),
		Width:  width,
		Height: height,
	}

	var store *storage.Store
	if !flagWatchNoSave {
		store, err = openStore(logger, false)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}
	}

	final, err := tui.RunViewer(cfg, opts, store, logger)
	if err != nil {
		return err
	}
	return reportWatch(cmd, final)
}

func reportWatch(cmd *cobra.Command, final tui.ViewerModel) error {
	t := final.Tally()
	fmt.Fprintf(cmd.OutOrStdout(), "%d shots, %d hits, accuracy %s\n", t.Shots, t.Hits, t.Label())
	if id := final.RunID(); id != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded as run %s\n", id)
	}
	return final.Err()
}
