package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cwarden/fuzzydue/internal/config"
	"github.com/cwarden/fuzzydue/internal/due"
	"github.com/cwarden/fuzzydue/internal/logx"
	"github.com/cwarden/fuzzydue/internal/ui"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	cfgFile    string
	tasksFiles []string
	logLevel   string
	logFile    string
	nowFlag    string
	cfg        *config.Config
	log        = logx.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "fuzzydue",
	Short: "Plan tasks against imprecise due dates",
	Long: `fuzzydue tracks tasks whose due dates are periods rather than instants:
a day, a week, a month, a year, or someday. The TUI steps through periods
and lists what is due within each one.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runTUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default searches FUZZYDUE_CONFIG, XDG and ~/.fuzzyduerc)")
	rootCmd.PersistentFlags().StringSliceVarP(&tasksFiles, "file", "f", []string{}, "Tasks file(s) to use (can be specified multiple times)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write JSON logs to this file")
	rootCmd.PersistentFlags().StringVar(&nowFlag, "now", "", "Evaluate phrases relative to this RFC3339 time")
	_ = rootCmd.PersistentFlags().MarkHidden("now")
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Command-line files replace the configured ones
	if len(tasksFiles) > 0 {
		cfg.TasksFiles = tasksFiles
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return setupLogger(cmd.ErrOrStderr())
}

// setupLogger writes console logs to stderr for the one-shot commands. The
// TUI owns the terminal, so it only logs when --log-file is given.
func setupLogger(stderr io.Writer) error {
	var err error
	if logFile != "" {
		f, ferr := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if ferr != nil {
			return fmt.Errorf("failed to open log file: %w", ferr)
		}
		log, err = logx.NewJSON(f, cfg.LogLevel)
		return err
	}
	log, err = logx.New(stderr, cfg.LogLevel)
	return err
}

// now honors --now so phrases can be evaluated reproducibly.
func now() (time.Time, error) {
	if nowFlag == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, nowFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now: %w", err)
	}
	return t, nil
}

func loadStore(l logx.Logger) (*due.Store, error) {
	store := due.NewStore(l, cfg.Calendar(), cfg.TasksFiles...)
	if err := store.Reload(); err != nil {
		return nil, fmt.Errorf("error loading tasks: %w", err)
	}
	return store, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	start, err := now()
	if err != nil {
		return err
	}
	if logFile == "" {
		log = logx.Nop()
	}

	store, err := loadStore(log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var changes <-chan due.FileChangeEvent
	if cfg.AutoRefresh {
		changes, err = store.Watch(ctx)
		if err != nil {
			// Periodic refresh still works without a watcher
			log.Warn().Err(err).Msg("file watching disabled")
		}
	}
	defer store.StopWatching()

	offset := time.Since(start)
	clock := func() time.Time { return time.Now().Add(-offset) }
	if nowFlag == "" {
		clock = time.Now
	}

	model, err := ui.NewModel(cfg, store, changes, clock)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}
