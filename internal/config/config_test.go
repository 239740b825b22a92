package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cwarden/fuzzydue/internal/fuzzy"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.WeekStartDay != time.Monday {
		t.Errorf("Wrong default week start day: %v", cfg.WeekStartDay)
	}

	if cfg.Sequence.String() != "Day,Week,Month,Year,Forever" {
		t.Errorf("Wrong default sequence: %s", cfg.Sequence)
	}

	if cfg.StartupGranularity != fuzzy.Week {
		t.Errorf("Wrong default startup granularity: %v", cfg.StartupGranularity)
	}

	if cfg.DateFormat != "Jan 2, 2006" {
		t.Errorf("Wrong default date format: %s", cfg.DateFormat)
	}

	if !cfg.AutoRefresh {
		t.Error("Auto refresh should be enabled by default")
	}

	if cfg.RefreshRate != 30*time.Second {
		t.Errorf("Wrong default refresh rate: %v", cfg.RefreshRate)
	}

	if cfg.Action("q") != "quit" {
		t.Errorf("Wrong quit key binding: %s", cfg.Action("q"))
	}

	if len(cfg.TasksFiles) != 1 || !strings.HasSuffix(cfg.TasksFiles[0], "tasks.json") {
		t.Errorf("Wrong default tasks files: %v", cfg.TasksFiles)
	}
}

func TestParseLine(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		line     string
		check    func(*Config) bool
		expected bool
		hasError bool
	}{
		{
			line: "set week_start_day sunday",
			check: func(c *Config) bool {
				return c.WeekStartDay == time.Sunday
			},
			expected: true,
		},
		{
			line: "set auto_refresh false",
			check: func(c *Config) bool {
				return !c.AutoRefresh
			},
			expected: true,
		},
		{
			line: "set refresh_rate 60",
			check: func(c *Config) bool {
				return c.RefreshRate == 60*time.Second
			},
			expected: true,
		},
		{
			line: "bind j next",
			check: func(c *Config) bool {
				return c.Action("j") == "next"
			},
			expected: true,
		},
		{
			line: "color task yellow",
			check: func(c *Config) bool {
				return c.Colors["task"] == "yellow"
			},
			expected: true,
		},
		{
			line:     "invalid command",
			hasError: true,
		},
		{
			line:     "# comment line",
			hasError: false,
		},
		{
			line:     "",
			hasError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			err := cfg.parseLine(tt.line)

			if tt.hasError && err == nil {
				t.Error("Expected error but got none")
			}

			if !tt.hasError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}

			if tt.check != nil {
				result := tt.check(cfg)
				if result != tt.expected {
					t.Errorf("Check failed for line: %s", tt.line)
				}
			}
		})
	}
}

func TestSetVariable(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		value    string
		check    func(*Config) bool
		hasError bool
	}{
		{
			name:  "tasks_files",
			value: "~/work.json,/tmp/home.json",
			check: func(c *Config) bool {
				return len(c.TasksFiles) == 2 &&
					!strings.HasPrefix(c.TasksFiles[0], "~") &&
					c.TasksFiles[1] == "/tmp/home.json"
			},
		},
		{
			name:  "week_start_day",
			value: "sat",
			check: func(c *Config) bool {
				return c.WeekStartDay == time.Saturday
			},
		},
		{
			name:     "week_start_day",
			value:    "someday",
			hasError: true,
		},
		{
			name:  "timezone",
			value: "UTC",
			check: func(c *Config) bool {
				return c.Location == time.UTC
			},
		},
		{
			name:     "timezone",
			value:    "Mars/Olympus_Mons",
			hasError: true,
		},
		{
			name:  "sequence",
			value: "Hour,Day,Week",
			check: func(c *Config) bool {
				return c.Sequence.String() == "Hour,Day,Week"
			},
		},
		{
			name:     "sequence",
			value:    "Day,Day",
			hasError: true,
		},
		{
			name:  "startup_granularity",
			value: "Month",
			check: func(c *Config) bool {
				return c.StartupGranularity == fuzzy.Month
			},
		},
		{
			name:     "startup_granularity",
			value:    "month",
			hasError: true,
		},
		{
			name:  "refresh_rate",
			value: "5m",
			check: func(c *Config) bool {
				return c.RefreshRate == 5*time.Minute
			},
		},
		{
			name:     "refresh_rate",
			value:    "soon",
			hasError: true,
		},
		{
			name:  "log_level",
			value: "debug",
			check: func(c *Config) bool {
				return c.LogLevel == "debug"
			},
		},
		{
			name:     "log_level",
			value:    "chatty",
			hasError: true,
		},
		{
			name:     "unknown_variable",
			value:    "something",
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			err := cfg.setVariable(tt.name, tt.value)

			if tt.hasError && err == nil {
				t.Error("Expected error but got none")
			}

			if !tt.hasError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}

			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Check failed for %s = %s", tt.name, tt.value)
			}
		})
	}

	if _, err := fuzzy.ParseSequence("Day,Day"); !errors.Is(err, fuzzy.ErrInvalidSequence) {
		t.Errorf("Duplicate sequence should be rejected by fuzzy, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "test_fuzzyduerc")

	content := `# Test config file
set tasks_files ~/work.json,~/home.json
set week_start_day sunday
set timezone UTC
set sequence Hour,Day,Week,Month,Year
set startup_granularity Day
set auto_refresh false
set refresh_rate 120

bind x quit
bind n next

color task cyan
color selected "229"
`

	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg, err := LoadFile(configFile)
	if err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if len(cfg.TasksFiles) != 2 {
		t.Errorf("Wrong number of tasks files: %d", len(cfg.TasksFiles))
	}

	if cfg.WeekStartDay != time.Sunday {
		t.Errorf("Wrong week start day: %v", cfg.WeekStartDay)
	}

	if cfg.AutoRefresh {
		t.Error("Auto refresh should be disabled")
	}

	if cfg.RefreshRate != 120*time.Second {
		t.Errorf("Wrong refresh rate: %v", cfg.RefreshRate)
	}

	if cfg.Action("x") != "quit" || cfg.Action("n") != "next" {
		t.Errorf("Wrong bindings: x=%s n=%s", cfg.Action("x"), cfg.Action("n"))
	}

	if cfg.Colors["selected"] != "229" {
		t.Errorf("Wrong selected color: %s", cfg.Colors["selected"])
	}

	cal := cfg.Calendar()
	if cal.WeekStart != time.Sunday || cal.Location != time.UTC {
		t.Errorf("Calendar mismatch: %+v", cal)
	}

	day := fuzzy.MustBuild(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), fuzzy.Day)
	week, err := cal.Build(day.Time(), fuzzy.Week)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !week.Time().Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Configured week should start on Sunday, got %v", week.Time())
	}
}

func TestLoadFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"unknown line", "frobnicate\n"},
		{"startup outside sequence", "set sequence Day,Week\nset startup_granularity Month\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, strings.ReplaceAll(tt.name, " ", "_"))
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Error("Expected error but got none")
			}
		})
	}

	if _, err := LoadFile(filepath.Join(tmpDir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Missing file should wrap os.ErrNotExist, got %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc")
	if err := os.WriteFile(path, []byte("set week_start_day wed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FUZZYDUE_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.WeekStartDay != time.Wednesday {
		t.Errorf("Config from FUZZYDUE_CONFIG not applied: %v", cfg.WeekStartDay)
	}
}
