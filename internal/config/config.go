package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cwarden/fuzzydue/internal/fuzzy"
	"github.com/cwarden/fuzzydue/internal/logx"
)

var (
	setRe   = regexp.MustCompile(`^set\s+(\w+)\s+(.+)$`)
	bindRe  = regexp.MustCompile(`^bind\s+(\S+)\s+(\S+)$`)
	colorRe = regexp.MustCompile(`^color\s+(\w+)\s+(.+)$`)
)

type Config struct {
	// File settings
	TasksFiles []string

	// Calendar settings
	WeekStartDay       time.Weekday
	Location           *time.Location
	Sequence           fuzzy.Sequence
	StartupGranularity fuzzy.Granularity

	// Display settings
	DateFormat  string
	Colors      map[string]string
	KeyBindings map[string]string

	// Behavior settings
	AutoRefresh bool
	RefreshRate time.Duration
	LogLevel    string
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		TasksFiles: []string{filepath.Join(home, ".fuzzydue", "tasks.json")},

		WeekStartDay:       time.Monday,
		Location:           time.Local,
		Sequence:           fuzzy.StandardSequence(),
		StartupGranularity: fuzzy.Week,

		DateFormat: "Jan 2, 2006",

		Colors: map[string]string{
			"normal":   "252",
			"selected": "220",
			"header":   "220",
			"task":     "40",
			"overlap":  "39",
			"done":     "241",
			"help":     "241",
			"today":    "214",
		},

		// key -> action
		KeyBindings: map[string]string{
			"q":     "quit",
			"?":     "help",
			"t":     "today",
			"r":     "refresh",
			"l":     "next",
			"right": "next",
			"h":     "prev",
			"left":  "prev",
			"+":     "coarser",
			"-":     "finer",
			"/":     "phrase",
		},

		AutoRefresh: true,
		RefreshRate: 30 * time.Second,
		LogLevel:    "info",
	}
}

// LoadConfig reads the first config file found.
func LoadConfig() (*Config, error) {
	configPaths := []string{
		os.Getenv("FUZZYDUE_CONFIG"),
		filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "fuzzydue", "fuzzyduerc"),
		filepath.Join(os.Getenv("HOME"), ".config", "fuzzydue", "fuzzyduerc"),
		filepath.Join(os.Getenv("HOME"), ".fuzzyduerc"),
	}

	for _, path := range configPaths {
		// A bare relative path means XDG_CONFIG_HOME is unset.
		if path == "" || path == filepath.Join("fuzzydue", "fuzzyduerc") {
			continue
		}

		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFile reads path on top of the defaults.
func LoadFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.loadFromFile(path); err != nil {
		return nil, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return config, nil
}

// Calendar returns the fuzzy calendar the configured conventions describe.
func (c *Config) Calendar() fuzzy.Calendar {
	return fuzzy.Calendar{
		WeekStart: c.WeekStartDay,
		Location:  c.Location,
		Sequence:  c.Sequence,
	}
}

// Action returns the action bound to key, if any.
func (c *Config) Action(key string) string {
	return c.KeyBindings[key]
}

func (c *Config) loadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if err := c.parseLine(line); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	return c.validate()
}

func (c *Config) parseLine(line string) error {
	// Skip comments and empty lines
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	// set variable value
	if matches := setRe.FindStringSubmatch(line); matches != nil {
		return c.setVariable(matches[1], matches[2])
	}

	// bind key action
	if matches := bindRe.FindStringSubmatch(line); matches != nil {
		c.KeyBindings[matches[1]] = matches[2]
		return nil
	}

	// color element color_spec
	if matches := colorRe.FindStringSubmatch(line); matches != nil {
		c.Colors[matches[1]] = strings.Trim(matches[2], `"'`)
		return nil
	}

	return fmt.Errorf("unknown config line: %s", line)
}

func (c *Config) setVariable(name, value string) error {
	// Remove quotes if present
	value = strings.Trim(value, `"'`)

	switch name {
	case "tasks_file", "tasks_files":
		files := strings.Split(value, ",")
		for i, file := range files {
			files[i] = expandHome(strings.TrimSpace(file))
		}
		c.TasksFiles = files

	case "week_start_day":
		day, err := parseWeekday(value)
		if err != nil {
			return err
		}
		c.WeekStartDay = day

	case "timezone":
		loc, err := time.LoadLocation(value)
		if err != nil {
			return fmt.Errorf("invalid timezone: %s", value)
		}
		c.Location = loc

	case "sequence":
		seq, err := fuzzy.ParseSequence(value)
		if err != nil {
			return fmt.Errorf("invalid sequence: %w", err)
		}
		c.Sequence = seq

	case "startup_granularity":
		g, err := fuzzy.ParseGranularity(value)
		if err != nil {
			return fmt.Errorf("invalid startup_granularity: %w", err)
		}
		c.StartupGranularity = g

	case "date_format":
		c.DateFormat = value

	case "auto_refresh":
		c.AutoRefresh = strings.ToLower(value) == "true" || value == "1"

	case "refresh_rate":
		rate, err := time.ParseDuration(value)
		if err != nil {
			// Try parsing as seconds
			if seconds, err2 := strconv.Atoi(value); err2 == nil {
				rate = time.Duration(seconds) * time.Second
			} else {
				return fmt.Errorf("invalid refresh_rate: %s", value)
			}
		}
		c.RefreshRate = rate

	case "log_level":
		if _, err := logx.ParseLevel(value); err != nil {
			return err
		}
		c.LogLevel = value

	default:
		return fmt.Errorf("unknown config variable: %s", name)
	}

	return nil
}

// validate checks settings that depend on each other.
func (c *Config) validate() error {
	if c.StartupGranularity != fuzzy.Forever && !c.Sequence.Contains(c.StartupGranularity) {
		return fmt.Errorf("startup_granularity %s is not in sequence %s", c.StartupGranularity, c.Sequence)
	}
	return nil
}

func parseWeekday(value string) (time.Weekday, error) {
	switch strings.ToLower(value) {
	case "sunday", "sun", "0":
		return time.Sunday, nil
	case "monday", "mon", "1":
		return time.Monday, nil
	case "tuesday", "tue", "2":
		return time.Tuesday, nil
	case "wednesday", "wed", "3":
		return time.Wednesday, nil
	case "thursday", "thu", "4":
		return time.Thursday, nil
	case "friday", "fri", "5":
		return time.Friday, nil
	case "saturday", "sat", "6":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("invalid week_start_day: %s", value)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
