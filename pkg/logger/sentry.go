package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
	// MinLevel is the lowest level stored in Sentry. Errors always create issues.
	MinLevel slog.Level
}

// NewWithSentry creates a logger that writes to cfg's output and to Sentry.
// With an empty DSN, or when Sentry fails to initialize, only cfg's output is used.
func NewWithSentry(cfg Config, sc SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	base := cfg.handler()
	if sc.DSN == "" {
		return slog.New(NewLogHandlerDecorator(base, extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         sc.DSN,
		Environment: sc.Environment,
		Release:     sc.Release,
		EnableLogs:  true,
	}); err != nil {
		slog.New(base).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return slog.New(NewLogHandlerDecorator(base, extractors...))
	}

	logLevels := []slog.Level{slog.LevelWarn, slog.LevelError}
	if sc.MinLevel >= slog.LevelError {
		logLevels = []slog.Level{slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background())

	return slog.New(NewLogHandlerDecorator(fanout{base, sentryHandler}, extractors...))
}

// FlushSentry waits up to timeout for buffered Sentry events to be sent.
func FlushSentry(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
