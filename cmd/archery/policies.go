package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-archery/internal/registry"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List all available policies",
	Long:  `Shows a list of all policies registered with the environment.`,
	Run:   runPolicies,
}

func runPolicies(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	policies := registry.List()

	if len(policies) == 0 {
		fmt.Fprintln(out, "No policies available.")
		return
	}

	fmt.Fprintln(out, "Available policies:")
	fmt.Fprintln(out)

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, p := range policies {
		if len(p.ID) > maxIDLen {
			maxIDLen = len(p.ID)
		}
	}

	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "--", "-----------")

	for _, p := range policies {
		fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, p.ID, p.Description)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'archery watch --policy <id>' to watch a policy shoot.")
}
