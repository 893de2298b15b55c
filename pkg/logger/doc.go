// Package logger builds slog loggers for pathway.
//
// Loggers write JSON or text records and can enrich every record with
// request-scoped attributes taken from the context:
//
//	log := logger.New(logger.Config{Level: slog.LevelDebug}, routing.LogExtractor)
//	log.InfoContext(ctx, "request served")
//	// {"level":"INFO","msg":"request served","routes":"locale+blog"}
//
// NewWithSentry additionally forwards warnings and errors to Sentry. An
// empty DSN keeps it writing to the configured output only, so the same
// code runs locally and in production.
//
// NewNope returns a logger that discards everything and is the default
// for library code that was not handed a logger.
package logger
