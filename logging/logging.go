// Package logging configures the zerolog logger shared by the CLI and its
// components. Output goes to stderr so it never mixes with command output.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Options control logger construction. Zero values fall back to the
// LOG_LEVEL and LOG_FORMAT environment variables.
type Options struct {
	Level  string
	Format string
	Out    io.Writer
}

// New builds a logger. Format "json" emits structured lines; anything else
// uses the console writer when Out is a terminal.
func New(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	level := ParseLevel(firstNonEmpty(opts.Level, os.Getenv("LOG_LEVEL")))
	format := firstNonEmpty(opts.Format, os.Getenv("LOG_FORMAT"))

	writer := out
	if format != "json" && isTerminal(out) {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// ParseLevel maps a level name to zerolog, defaulting to warn so routine
// CLI use stays quiet.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
