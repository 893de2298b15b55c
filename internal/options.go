package internal

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/pathway/pkg/health"
	"github.com/dmitrymomot/pathway/pkg/locale"
	"github.com/dmitrymomot/pathway/pkg/routing"
	"github.com/dmitrymomot/pathway/pkg/snapshot"
	"github.com/dmitrymomot/pathway/pkg/telemetry"
)

// Option configures the application.
type Option func(*App)

// WithRoutesFile sets the YAML route file the router is built from.
func WithRoutesFile(path string) Option {
	return func(a *App) {
		a.routesFile = path
	}
}

// WithRouter serves an already built router instead of a route file.
// Reload and Watch are unavailable unless a route file is also set.
func WithRouter(r *routing.Router) Option {
	return func(a *App) {
		if r != nil {
			a.router.Store(r)
		}
	}
}

// WithRouterOptions passes options to every router the app builds.
//
// Example:
//
//	pathway.WithRouterOptions(
//	    routing.WithNotFound("errors", "404"),
//	    routing.WithSource("_ENV", routing.EnvSource()),
//	)
func WithRouterOptions(opts ...routing.Option) Option {
	return func(a *App) {
		a.routerOpts = append(a.routerOpts, opts...)
	}
}

// WithStore caches built routers as snapshots keyed by the route file checksum.
func WithStore(store snapshot.Store) Option {
	return func(a *App) {
		a.store = store
	}
}

// WithLogger sets the logger used by the app and the routers it builds.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics records match and generation metrics and serves them on /metrics.
func WithMetrics(p *telemetry.Prometheus) Option {
	return func(a *App) {
		a.metrics = p
	}
}

// WithTracing records match and generation spans.
func WithTracing(t *telemetry.Tracing) Option {
	return func(a *App) {
		a.tracing = t
	}
}

// WithLocales sets the locale used for requests whose routes selected none,
// negotiated from the Accept-Language header.
func WithLocales(n *locale.Negotiator) Option {
	return func(a *App) {
		a.locales = n
	}
}

// WithWatch rebuilds the router when the route file changes.
// Events closer together than debounce collapse into one reload.
func WithWatch(debounce time.Duration) Option {
	return func(a *App) {
		a.watch = true
		if debounce > 0 {
			a.debounce = debounce
		}
	}
}

// WithReadinessCheck adds a named check to /health/ready.
//
// Example:
//
//	pathway.WithReadinessCheck("redis", func(ctx context.Context) error {
//	    return client.Ping(ctx).Err()
//	})
func WithReadinessCheck(name string, fn health.CheckFunc) Option {
	return func(a *App) {
		if name == "" || fn == nil {
			return
		}
		if a.checks == nil {
			a.checks = make(health.Checks)
		}
		a.checks[name] = fn
	}
}
