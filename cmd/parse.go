package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/cwarden/fuzzydue/internal/fuzzy"
	"github.com/cwarden/fuzzydue/internal/parser"
	"github.com/spf13/cobra"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse <phrase>",
	Short: "Show the period a phrase refers to",
	Long: `Resolve a phrase such as "today", "next week" or "last year" against the
configured calendar and print the resulting period.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "Print the period in its JSON wire format")
	rootCmd.AddCommand(parseCmd)
}

func parsePhrase(args []string) (fuzzy.Time, error) {
	at, err := now()
	if err != nil {
		return fuzzy.Time{}, err
	}
	p := parser.NewPhraseParser(cfg.Calendar())
	p.SetNow(at)
	return p.ParseWithError(strings.Join(args, " "))
}

func runParse(cmd *cobra.Command, args []string) error {
	period, err := parsePhrase(args)
	if err != nil {
		return err
	}
	log.Debug().Str("phrase", strings.Join(args, " ")).Stringer("period", period).Msg("phrase parsed")

	out := cmd.OutOrStdout()
	if parseJSON {
		q, err := fuzzy.EncodeQuery(period)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, q)
		return nil
	}

	fmt.Fprintf(out, "%s\n", period.Label())
	fmt.Fprintf(out, "  granularity: %s\n", period.Granularity())
	if period.Granularity() == fuzzy.Forever {
		fmt.Fprintln(out, "  start:       unbounded")
		fmt.Fprintln(out, "  end:         unbounded")
		return nil
	}
	end, _ := period.End()
	fmt.Fprintf(out, "  start:       %s\n", period.Time().Format(time.RFC3339))
	fmt.Fprintf(out, "  end:         %s\n", end.Format(time.RFC3339))
	return nil
}
