package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/pathway/pkg/health"
	"github.com/dmitrymomot/pathway/pkg/locale"
	"github.com/dmitrymomot/pathway/pkg/logger"
	"github.com/dmitrymomot/pathway/pkg/routeconfig"
	"github.com/dmitrymomot/pathway/pkg/routing"
	"github.com/dmitrymomot/pathway/pkg/snapshot"
	"github.com/dmitrymomot/pathway/pkg/telemetry"
)

// Default server timeouts.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
	defaultDebounce          = 200 * time.Millisecond
)

// App is the routing resolver service.
// It owns the active router and swaps it atomically on reload,
// so requests in flight keep the router they started with.
type App struct {
	router atomic.Pointer[routing.Router]
	mux    chi.Router

	logger  *slog.Logger
	metrics *telemetry.Prometheus
	tracing *telemetry.Tracing
	store   snapshot.Store
	loader  *snapshot.Loader
	locales *locale.Negotiator
	checks  health.Checks

	routesFile string
	routerOpts []routing.Option

	watch    bool
	debounce time.Duration

	reloadMu sync.Mutex
}

// New creates the resolver. With a route file configured the router is
// built from it, going through the snapshot store when one is set.
//
// Example:
//
//	app, err := pathway.New(ctx,
//	    pathway.WithRoutesFile("routes.yaml"),
//	    pathway.WithStore(snapshot.NewMemory()),
//	    pathway.WithMetrics(telemetry.NewPrometheus()),
//	)
func New(ctx context.Context, opts ...Option) (*App, error) {
	a := &App{
		logger:   logger.NewNope(),
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.loader = snapshot.NewLoader(a.store, snapshot.WithLoaderLogger(a.logger))

	if a.router.Load() == nil {
		if a.routesFile == "" {
			return nil, ErrNoRoutes
		}
		r, err := a.build(ctx)
		if err != nil {
			return nil, err
		}
		a.router.Store(r)
	}

	a.mux = a.routes()
	return a, nil
}

// Router returns the active router.
func (a *App) Router() *routing.Router {
	return a.router.Load()
}

// Handler returns the HTTP surface of the resolver.
func (a *App) Handler() http.Handler {
	return a.mux
}

// Execute runs the active router. App satisfies routing.Executor, so the
// middleware always sees the latest router.
func (a *App) Execute(ctx context.Context, input, method string, opts ...routing.ExecOption) *routing.Result {
	return a.router.Load().Execute(ctx, input, method, opts...)
}

// Reload rebuilds the router from the route file and swaps it in.
// On failure the previous router stays active.
func (a *App) Reload(ctx context.Context) error {
	if a.routesFile == "" {
		return ErrNoRoutes
	}

	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	r, err := a.build(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "route reload failed",
			slog.String("file", a.routesFile),
			slog.Any("error", err),
		)
		return errors.Join(ErrReload, err)
	}

	a.router.Store(r)
	a.logger.InfoContext(ctx, "routes reloaded",
		slog.String("file", a.routesFile),
		slog.Int("routes", r.Len()),
	)
	return nil
}

// build loads the route file and returns its router, restoring it from
// the snapshot store when a snapshot of the same file exists.
func (a *App) build(ctx context.Context) (*routing.Router, error) {
	f, err := routeconfig.LoadFile(a.routesFile)
	if err != nil {
		return nil, err
	}

	opts := a.routerOptions()
	return a.loader.LoadOrBuild(ctx, f.Checksum(), func(context.Context) (*routing.Router, error) {
		return f.Build(opts...)
	}, opts...)
}

func (a *App) routerOptions() []routing.Option {
	opts := make([]routing.Option, 0, len(a.routerOpts)+2)
	opts = append(opts, routing.WithLogger(a.logger))
	opts = append(opts, a.routerOpts...)

	var observers []routing.Observer
	if a.metrics != nil {
		observers = append(observers, a.metrics)
	}
	if a.tracing != nil {
		observers = append(observers, a.tracing)
	}
	if len(observers) > 0 {
		opts = append(opts, routing.WithObserver(telemetry.Multi(observers...)))
	}
	return opts
}
