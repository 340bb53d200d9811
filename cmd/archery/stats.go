package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-archery/internal/platform/tui"
	"github.com/vovakirdan/tui-archery/internal/storage"
)

var (
	flagStatsTUI    bool
	flagStatsLimit  int
	flagStatsPolicy string
	flagStatsClear  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show shot-log statistics",
	Long: `Display per-policy accuracy and the most recent runs from the shot log.

Examples:
  archery stats
  archery stats --limit 5
  archery stats --tui
  archery stats --policy random --clear`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagStatsTUI, "tui", false, "Browse runs in an interactive board")
	statsCmd.Flags().IntVar(&flagStatsLimit, "limit", 10, "Number of recent runs to show")
	statsCmd.Flags().StringVar(&flagStatsPolicy, "policy", "", "Only show this policy")
	statsCmd.Flags().BoolVar(&flagStatsClear, "clear", false, "Delete all runs of --policy")
}

func runStats(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger("archery")
	if err != nil {
		return err
	}
	store, err := openStore(logger, true)
	if err != nil {
		return fmt.Errorf("opening shot log: %w", err)
	}
	defer store.Close()

	if flagStatsClear {
		if flagStatsPolicy == "" {
			return fmt.Errorf("--clear needs --policy")
		}
		if err := store.DeletePolicy(flagStatsPolicy); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted all runs of %s\n", flagStatsPolicy)
		return nil
	}

	if flagStatsTUI {
		width, height := tui.DefaultWidth, tui.DefaultHeight
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		return tui.RunBoard(store, width, height)
	}

	out := cmd.OutOrStdout()

	stats, err := policyStats(store, flagStatsPolicy)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		if flagStatsPolicy != "" {
			fmt.Fprintf(out, "No runs recorded for %s.\n", flagStatsPolicy)
			return nil
		}
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Try 'archery run --save' or 'archery watch' to record some shots.")
		return nil
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "Policies")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-12s  %5s  %7s  %6s  %8s  %8s  %s\n", "Policy", "Runs", "Shots", "Acc", "Reward", "Ticks", "Last shot")
	fmt.Fprintf(out, "  %-12s  %5s  %7s  %6s  %8s  %8s  %s\n", "------", "----", "-----", "---", "------", "-----", "---------")
	for _, name := range names {
		st := stats[name]
		last := "-"
		if !st.LastShot.IsZero() {
			last = st.LastShot.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(out, "  %-12s  %5d  %7d  %5.1f%%  %8.2f  %8.1f  %s\n",
			name, st.Runs, st.Shots, st.Accuracy()*100, st.MeanReward, st.MeanTicks, last)
	}

	runs, err := store.RecentPolicyRuns(flagStatsPolicy, flagStatsLimit)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Recent runs")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-8s  %-12s  %-12s  %6s  %6s  %s\n", "Run", "Policy", "Source", "Shots", "Acc", "Date")
	fmt.Fprintf(out, "  %-8s  %-12s  %-12s  %6s  %6s  %s\n", "---", "------", "------", "-----", "---", "----")
	for _, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(out, "  %-8s  %-12s  %-12s  %6d  %5.1f%%  %s\n",
			id, r.Policy, r.Source, r.Shots, r.Accuracy()*100, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// policyStats returns the stats of one policy, or of every policy when
// policy is empty. Policies without runs are left out.
func policyStats(store *storage.Store, policy string) (map[string]*storage.PolicyStats, error) {
	if policy == "" {
		return store.GetAllPolicyStats()
	}
	st, err := store.GetPolicyStats(policy)
	if err != nil {
		return nil, err
	}
	if st.Runs == 0 {
		return nil, nil
	}
	return map[string]*storage.PolicyStats{policy: st}, nil
}
