// Command example embeds the routing engine in a plain HTTP server.
// Routes are resolved by the routing middleware and dispatched by module and action.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/pathway/middlewares"
	"github.com/dmitrymomot/pathway/pkg/locale"
	"github.com/dmitrymomot/pathway/pkg/logger"
	"github.com/dmitrymomot/pathway/pkg/routing"
)

func main() {
	log := logger.New(logger.Config{Format: logger.FormatText}, middlewares.RequestIDExtractor(), routing.LogExtractor)

	router, err := buildRouter(log)
	if err != nil {
		log.Error("failed to build routes", slog.Any("error", err))
		os.Exit(1)
	}

	locales, err := locale.New("en", "de")
	if err != nil {
		log.Error("failed to configure locales", slog.Any("error", err))
		os.Exit(1)
	}

	handlers := map[string]http.HandlerFunc{
		"site/index": func(w http.ResponseWriter, r *http.Request) {
			res, _ := routing.FromContext(r.Context())
			url, _ := res.Gen(r.Context(), "post", map[string]any{"id": 1})
			_, _ = fmt.Fprintf(w, "home (%s), first post at %s\n", res.Locale, url)
		},
		"blog/show": func(w http.ResponseWriter, r *http.Request) {
			res, _ := routing.FromContext(r.Context())
			_, _ = fmt.Fprintf(w, "post %s in %s\n", res.Param("id"), res.Param("lang"))
		},
	}

	mux := chi.NewRouter()
	mux.Use(
		middlewares.RequestID(),
		middlewares.Recover(middlewares.WithRecoverLogger(log)),
		routing.Middleware(router, routing.WithLocaleFallback(locales.FromRequest)),
		middlewares.RequestLogger(log),
	)
	mux.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		res, _ := routing.FromContext(r.Context())
		if h, ok := handlers[res.Module+"/"+res.Action]; ok {
			h(w, r)
			return
		}
		http.NotFound(w, r)
	})

	log.Info("listening", slog.String("address", ":8080"))
	if err := http.ListenAndServe(":8080", mux); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func buildRouter(log *slog.Logger) (*routing.Router, error) {
	// Post ids below 1 are rejected, so /en/blog/0 falls through to not found.
	positive := routing.CallbackFuncs{
		Matched: func(_ context.Context, m *routing.MatchContext) bool {
			id, err := strconv.Atoi(m.Captures["id"])
			return err == nil && id > 0
		},
	}

	r := routing.New(
		routing.WithLogger(log),
		routing.WithNotFound("errors", "404"),
		routing.WithCallback("positive", positive),
	)

	if _, err := r.AddRoute("^/(lang:[a-z]{2})/", routing.RouteOptions{
		Name:     "locale",
		Stop:     routing.Bool(false),
		Cut:      routing.Bool(true),
		Imply:    routing.Bool(true),
		Defaults: map[string]string{"lang": "en"},
	}, ""); err != nil {
		return nil, err
	}
	if _, err := r.AddRoute("^blog/(id:[0-9]+)$", routing.RouteOptions{
		Name:     "post",
		Module:   "blog",
		Action:   "show",
		Methods:  []string{http.MethodGet},
		Callback: "positive",
	}, ""); err != nil {
		return nil, err
	}
	if _, err := r.AddRoute("^/$", routing.RouteOptions{Name: "home", Module: "site", Action: "index"}, ""); err != nil {
		return nil, err
	}
	return r, nil
}
