package internal

import (
	"context"
)

// Run serves the resolver on addr and blocks until the base context is
// cancelled or the process receives SIGINT or SIGTERM.
// With watching enabled the route file watcher runs for the server's lifetime.
//
// Example:
//
//	err := app.Run(":8080", pathway.ShutdownTimeout(10*time.Second))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	log := cfg.logger
	if log == nil {
		log = a.logger
	}

	var background []func(context.Context) error
	if a.watch && a.routesFile != "" {
		background = append(background, a.Watch)
	}

	return runServer(runtimeConfig{
		handler:         a.mux,
		address:         addr,
		logger:          log,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		background:      background,
		baseCtx:         cfg.baseCtx,
	})
}
