package pathway

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/pathway/internal"
	"github.com/dmitrymomot/pathway/pkg/health"
	"github.com/dmitrymomot/pathway/pkg/locale"
	"github.com/dmitrymomot/pathway/pkg/logger"
	"github.com/dmitrymomot/pathway/pkg/routing"
	"github.com/dmitrymomot/pathway/pkg/snapshot"
	"github.com/dmitrymomot/pathway/pkg/telemetry"
)

// Type aliases - public API
type (
	// App is the routing resolver service.
	App = internal.App

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HTTPError is an error rendered as a JSON response.
	HTTPError = internal.HTTPError

	// Router is the hierarchical routing tree.
	Router = routing.Router

	// Result is the outcome of executing the router.
	Result = routing.Result

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor
)

// Errors
var (
	ErrNoRoutes = internal.ErrNoRoutes
	ErrReload   = internal.ErrReload
	ErrWatch    = internal.ErrWatch
)

// Constructors

// New creates the resolver.
//
// Example:
//
//	app, err := pathway.New(ctx,
//	    pathway.WithRoutesFile("routes.yaml"),
//	    pathway.WithRouterOptions(routing.WithNotFound("errors", "404")),
//	)
//	if err != nil {
//	    return err
//	}
//	err = app.Run(":8080")
func New(ctx context.Context, opts ...Option) (*App, error) {
	return internal.New(ctx, opts...)
}

// App options

// WithRoutesFile sets the YAML route file the router is built from.
func WithRoutesFile(path string) Option {
	return internal.WithRoutesFile(path)
}

// WithRouter serves an already built router.
func WithRouter(r *Router) Option {
	return internal.WithRouter(r)
}

// WithRouterOptions passes options to every router the app builds.
func WithRouterOptions(opts ...routing.Option) Option {
	return internal.WithRouterOptions(opts...)
}

// WithStore caches built routers as snapshots keyed by the route file checksum.
func WithStore(store snapshot.Store) Option {
	return internal.WithStore(store)
}

// WithLogger sets the logger used by the app and its routers.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithMetrics records routing metrics and serves them on /metrics.
func WithMetrics(p *telemetry.Prometheus) Option {
	return internal.WithMetrics(p)
}

// WithTracing records routing spans.
func WithTracing(t *telemetry.Tracing) Option {
	return internal.WithTracing(t)
}

// WithLocales negotiates a locale for requests whose routes selected none.
func WithLocales(n *locale.Negotiator) Option {
	return internal.WithLocales(n)
}

// WithWatch rebuilds the router when the route file changes.
func WithWatch(debounce time.Duration) Option {
	return internal.WithWatch(debounce)
}

// WithReadinessCheck adds a named check to /health/ready.
func WithReadinessCheck(name string, fn health.CheckFunc) Option {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the server logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function run before the server accepts requests.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}
