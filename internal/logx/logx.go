// Package logx sets up the zerolog logger shared by the CLI, the task store
// and the file watcher.
package logx

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

type Logger = zerolog.Logger

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// ParseLevel accepts zerolog level names plus "warning". An empty string
// means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// New returns a console logger writing to w. Fields render as key=value.
func New(w io.Writer, level string) (Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return Nop(), err
	}
	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: consoleTimeFormat,
		NoColor:    true,
	}
	return zerolog.New(console).Level(lvl).With().Timestamp().Logger(), nil
}

// NewJSON writes structured JSON lines, for piping into other tools.
func NewJSON(w io.Writer, level string) (Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return Nop(), err
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func Nop() Logger {
	return zerolog.Nop()
}
