package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cwarden/fuzzydue/internal/due"
	"github.com/cwarden/fuzzydue/internal/fuzzy"
	"github.com/cwarden/fuzzydue/internal/parser"
	"github.com/cwarden/fuzzydue/internal/ui"
	"github.com/spf13/cobra"
)

var (
	listFrom  string
	listTo    string
	listGroup bool
)

var listCmd = &cobra.Command{
	Use:   "list [phrase]",
	Short: "List tasks due in a period and exit",
	Long: `List the tasks due within a period, plus the coarser tasks that overlap it.
The period defaults to the current one at the startup granularity. With
--from or --to, list every task due between the two phrases instead. With
--group, list every dated task grouped under its due period.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listFrom, "from", "", "Earliest period, as a phrase")
	listCmd.Flags().StringVar(&listTo, "to", "", "Latest period (inclusive), as a phrase")
	listCmd.Flags().BoolVar(&listGroup, "group", false, "Group all dated tasks by due period")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := loadStore(log)
	if err != nil {
		return err
	}
	styles := ui.NewStyles(cfg.Colors)
	out := cmd.OutOrStdout()

	if listGroup {
		return listGroups(out, store, styles)
	}
	if listFrom != "" || listTo != "" {
		return listRange(out, store, styles)
	}

	var period fuzzy.Time
	if len(args) > 0 {
		period, err = parsePhrase(args)
	} else {
		start, nerr := now()
		if nerr != nil {
			return nerr
		}
		period, err = cfg.Calendar().Build(start, cfg.StartupGranularity)
	}
	if err != nil {
		return err
	}

	within := store.DueWithin(period)
	overlapping := store.Overlapping(period)
	log.Debug().Stringer("period", period).Int("within", len(within)).Int("overlapping", len(overlapping)).Msg("listing tasks")

	fmt.Fprintln(out, styles.Header.Render(period.Label()))
	if len(within) == 0 {
		fmt.Fprintln(out, styles.Help.Render("No tasks due."))
	}
	printTasks(out, within, styles.Task)

	if len(overlapping) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, styles.Normal.Render("Also in progress:"))
		printTasks(out, overlapping, styles.Overlap)
	}
	return nil
}

func listRange(out io.Writer, store *due.Store, styles ui.Styles) error {
	p := parser.NewPhraseParser(cfg.Calendar())
	at, err := now()
	if err != nil {
		return err
	}
	p.SetNow(at)

	bound := func(phrase string) (*fuzzy.Time, error) {
		if phrase == "" {
			return nil, nil
		}
		t, err := p.ParseWithError(phrase)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	from, err := bound(listFrom)
	if err != nil {
		return err
	}
	to, err := bound(listTo)
	if err != nil {
		return err
	}

	tasks, err := store.InRange(from, to)
	if err != nil {
		return err
	}

	var header []string
	if from != nil {
		header = append(header, "from "+from.Label())
	}
	if to != nil {
		header = append(header, "through "+to.Label())
	}
	fmt.Fprintln(out, styles.Header.Render("Tasks "+strings.Join(header, " ")))
	if len(tasks) == 0 {
		fmt.Fprintln(out, styles.Help.Render("No tasks due."))
	}
	printTasks(out, tasks, styles.Task)
	return nil
}

// listGroups prints one heading per distinct due period, finest first
// among periods starting together.
func listGroups(out io.Writer, store *due.Store, styles ui.Styles) error {
	tasks := store.Tasks()
	byID := make(map[string]due.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	orders := due.GroupByDue(tasks)
	if len(orders) == 0 {
		fmt.Fprintln(out, styles.Help.Render("No tasks due."))
		return nil
	}
	for i, order := range orders {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, styles.Header.Render(order.Due.Label()))
		for _, id := range order.TaskIDs {
			fmt.Fprintln(out, styles.Task.Render("  "+byID[id].Name))
		}
	}
	return nil
}

func printTasks(out io.Writer, tasks []due.Task, style lipgloss.Style) {
	for _, task := range tasks {
		label := "Someday"
		if task.HasDue() {
			label = task.Due.Label()
		}
		line := fmt.Sprintf("  %-22s %s", label, task.Name)
		if task.Completed {
			line += " (done)"
		}
		fmt.Fprintln(out, style.Render(line))
		if len(task.Tags) > 0 {
			fmt.Fprintf(out, "    Tags: %v\n", task.Tags)
		}
	}
}
