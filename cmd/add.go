package cmd

import (
	"fmt"
	"strings"

	"github.com/cwarden/fuzzydue/internal/due"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	addDue  string
	addTags []string
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a task to the first tasks file",
	Long: `Add a task with an optional imprecise due date given as a phrase, for
example: fuzzydue add --due "next month" Renew passport`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addDue, "due", "d", "", "Due period, as a phrase")
	addCmd.Flags().StringSliceVarP(&addTags, "tag", "t", []string{}, "Tag (can be specified multiple times)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if len(cfg.TasksFiles) == 0 {
		return fmt.Errorf("no tasks file configured")
	}
	path := cfg.TasksFiles[0]

	task := due.Task{
		ID:   uuid.NewString(),
		Name: strings.Join(args, " "),
		Tags: addTags,
	}
	if addDue != "" {
		period, err := parsePhrase([]string{addDue})
		if err != nil {
			return err
		}
		task.Due = &period
	}

	store, err := loadStore(log)
	if err != nil {
		return err
	}
	store.Add(task, path)
	if err := store.Save(path); err != nil {
		return fmt.Errorf("error saving tasks: %w", err)
	}

	log.Info().Str("id", task.ID).Str("path", path).Msg("task added")
	label := "someday"
	if task.HasDue() {
		label = task.Due.Label()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %q due %s\n", task.Name, label)
	return nil
}
