// Package logging builds the structured logger shared by the CLI and the
// backends.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/jmgilman/gitview/errors"
)

// Level is a minimum log level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Format selects the handler output.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds logger settings.
type Config struct {
	Level  Level
	Format Format
	// AddSource includes file and line number in records.
	AddSource bool
}

// DefaultConfig returns info-level text logging.
func DefaultConfig() Config {
	return Config{Level: LevelInfo, Format: FormatText}
}

// New creates a logger writing to w.
func New(cfg Config, w io.Writer) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level.slog(),
		AddSource: cfg.AddSource,
	}

	switch cfg.Format {
	case FormatText, "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		err := errors.Newf(errors.CodeInvalidConfig, "unknown log format %q", cfg.Format)
		return nil, errors.WithContext(err, "field", "log.format")
	}
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel parses a level name such as "debug" or "WARN".
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		err := errors.Newf(errors.CodeInvalidConfig, "unknown log level %q", level)
		return LevelInfo, errors.WithContext(err, "field", "log.level")
	}
}
