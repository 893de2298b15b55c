package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/pathway/middlewares"
	"github.com/dmitrymomot/pathway/pkg/health"
	"github.com/dmitrymomot/pathway/pkg/routing"
	"github.com/dmitrymomot/pathway/pkg/snapshot"
)

// Paths served by the resolver. Every other path is resolved by the router.
const (
	LivenessPath  = "/health/live"
	ReadinessPath = "/health/ready"
	MetricsPath   = "/metrics"
	RoutesPath    = "/_routes"
	GeneratePath  = "/_gen/{route}"
)

// genResponse is the body of a successful generation request.
type genResponse struct {
	Route string `json:"route"`
	URL   string `json:"url"`
}

// routes builds the HTTP surface.
func (a *App) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		middlewares.RequestID(),
		middlewares.Recover(
			middlewares.WithRecoverLogger(a.logger),
			middlewares.WithRecoverHandler(func(w http.ResponseWriter, _ *http.Request, pe *middlewares.PanicError) {
				writeError(w, pe)
			}),
		),
		middlewares.RequestLogger(a.logger),
	)

	r.Get(LivenessPath, health.LivenessHandler())
	r.Get(ReadinessPath, health.ReadinessHandler(a.readinessChecks(), health.WithLogger(a.logger)))
	if a.metrics != nil {
		r.Method(http.MethodGet, MetricsPath, a.metrics.Handler())
	}
	r.Get(RoutesPath, a.listRoutes)
	r.Get(GeneratePath, a.generate)

	var mwOpts []routing.MiddlewareOption
	if a.locales != nil {
		mwOpts = append(mwOpts, routing.WithLocaleFallback(a.locales.FromRequest))
	}
	r.Handle("/*", routing.Middleware(a, mwOpts...)(http.HandlerFunc(a.resolve)))

	return r
}

func (a *App) readinessChecks() health.Checks {
	checks := health.Checks{
		"router": func(context.Context) error {
			if a.router.Load() == nil {
				return errors.New("router not loaded")
			}
			return nil
		},
	}
	if a.store != nil {
		checks["snapshot"] = snapshot.Healthcheck(a.store)
	}
	for name, fn := range a.checks {
		checks[name] = fn
	}
	return checks
}

// resolve reports the routing result of the request.
func (a *App) resolve(w http.ResponseWriter, r *http.Request) {
	res, ok := routing.FromContext(r.Context())
	if !ok {
		writeError(w, ErrInternal("routing result missing"))
		return
	}

	a.logger.DebugContext(r.Context(), "request resolved",
		slog.String("module", res.Module),
		slog.String("action", res.Action),
		slog.Bool("not_found", res.NotFound),
	)

	status := http.StatusOK
	if res.NotFound {
		status = http.StatusNotFound
	}
	writeJSON(w, status, res)
}

// listRoutes exports the active routing tree.
func (a *App) listRoutes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.router.Load().Export())
}

// generate builds the URL of the route named in the path.
// Query values become parameters; only the first value of a key is used.
func (a *App) generate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "route")

	query := r.URL.Query()
	params := make(map[string]any, len(query))
	for key, values := range query {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	url, err := a.router.Load().Gen(r.Context(), name, params)
	if err != nil {
		if routing.IsUnknownRoute(err) {
			writeError(w, ErrNotFound("unknown route", WithRoute(name), WithError(err)))
			return
		}
		a.logger.WarnContext(r.Context(), "url generation failed",
			slog.String("route", name),
			slog.Any("error", err),
		)
		writeError(w, ErrBadRequest(err.Error(), WithRoute(name), WithError(err)))
		return
	}

	writeJSON(w, http.StatusOK, genResponse{Route: name, URL: url})
}
