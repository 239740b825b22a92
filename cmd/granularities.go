package cmd

import (
	"fmt"

	"github.com/cwarden/fuzzydue/internal/fuzzy"
	"github.com/spf13/cobra"
)

var granularitiesCmd = &cobra.Command{
	Use:   "granularities",
	Short: "List granularities and the configured navigation sequence",
	RunE:  runGranularities,
}

func init() {
	rootCmd.AddCommand(granularitiesCmd)
}

func runGranularities(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%-8s %-4s %-8s %s\n", "NAME", "KEY", "NEXT", "PREV")
	for _, g := range fuzzy.Granularities() {
		next, prev := "-", "-"
		if n, err := cfg.Sequence.Next(g); err == nil {
			next = n.String()
		}
		if p, err := cfg.Sequence.Prev(g); err == nil {
			prev = p.String()
		}
		fmt.Fprintf(out, "%-8s %-4d %-8s %s\n", g, g.Key(), next, prev)
	}
	fmt.Fprintf(out, "\nSequence: %s\n", cfg.Sequence)
	return nil
}
