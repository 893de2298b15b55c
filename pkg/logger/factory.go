package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Output formats accepted by Config.Format.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config selects the level, format and destination of a logger.
// The zero value logs JSON at info level to stdout.
type Config struct {
	Output io.Writer
	Format string
	Level  slog.Level
}

func (c Config) handler() slog.Handler {
	out := c.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: c.Level}
	if strings.EqualFold(c.Format, FormatText) {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}

// New creates a logger from cfg with optional context extractors.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewLogHandlerDecorator(cfg.handler(), extractors...))
}

// ParseLevel converts a level name such as "debug" or "WARN" to a slog.Level.
// An empty name yields info.
func ParseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("logger: unknown level %q", name)
	}
	return lvl, nil
}
