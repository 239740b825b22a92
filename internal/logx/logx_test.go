package logx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
		hasError bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lvl, err := ParseLevel(tt.input)
			if (err != nil) != tt.hasError {
				t.Fatalf("Error mismatch: got %v, hasError %v", err, tt.hasError)
			}
			if lvl != tt.expected {
				t.Errorf("Level mismatch: got %v, want %v", lvl, tt.expected)
			}
		})
	}
}

func TestNewJSONFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewJSON(&buf, "warn")
	if err != nil {
		t.Fatalf("NewJSON failed: %v", err)
	}

	logger.Info().Msg("hidden")
	logger.Warn().Str("path", "tasks.json").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info message should be filtered: %s", out)
	}
	if !strings.Contains(out, `"path":"tasks.json"`) {
		t.Errorf("Warn message should carry fields: %s", out)
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Debug().Int("tasks", 3).Msg("reloaded")

	out := buf.String()
	if !strings.Contains(out, "reloaded") || !strings.Contains(out, "tasks=3") {
		t.Errorf("Console output mismatch: %s", out)
	}
}
