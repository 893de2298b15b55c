package logger

import (
	"context"
	"log/slog"
)

// NewNope creates a logger that discards all output.
func NewNope() *slog.Logger {
	return slog.New(nope{})
}

type nope struct{}

func (nope) Enabled(context.Context, slog.Level) bool { return false }
func (nope) Handle(context.Context, slog.Record) error { return nil }
func (n nope) WithAttrs([]slog.Attr) slog.Handler { return n }
func (n nope) WithGroup(string) slog.Handler { return n }
