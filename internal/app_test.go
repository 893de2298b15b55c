package internal_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pathway/internal"
	"github.com/dmitrymomot/pathway/pkg/locale"
	"github.com/dmitrymomot/pathway/pkg/routing"
	"github.com/dmitrymomot/pathway/pkg/snapshot"
	"github.com/dmitrymomot/pathway/pkg/telemetry"
)

const routesYAML = `
routes:
  - name: locale
    pattern: "^/(lang:[a-z]{2})/"
    stop: false
    cut: true
    imply: true
    defaults:
      lang: en
  - name: post
    pattern: "^blog/(id:[0-9]+)$"
    module: blog
    action: show
  - name: home
    pattern: "^/$"
    module: site
    action: index
`

func writeRoutes(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newApp(t *testing.T, opts ...internal.Option) *internal.App {
	t.Helper()

	opts = append([]internal.Option{internal.WithRoutesFile(writeRoutes(t, routesYAML))}, opts...)
	app, err := internal.New(context.Background(), opts...)
	require.NoError(t, err)
	return app
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type resultBody struct {
	Params   map[string]string `json:"params"`
	Module   string            `json:"module"`
	Action   string            `json:"action"`
	Locale   string            `json:"locale"`
	Routes   []string          `json:"routes"`
	NotFound bool              `json:"not_found"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("no routes", func(t *testing.T) {
		t.Parallel()

		_, err := internal.New(context.Background())
		require.ErrorIs(t, err, internal.ErrNoRoutes)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := internal.New(context.Background(), internal.WithRoutesFile(filepath.Join(t.TempDir(), "nope.yaml")))
		require.Error(t, err)
	})

	t.Run("prebuilt router", func(t *testing.T) {
		t.Parallel()

		r := routing.New()
		_, err := r.AddRoute("^/ping$", routing.RouteOptions{Name: "ping", Module: "sys", Action: "ping"}, "")
		require.NoError(t, err)

		app, err := internal.New(context.Background(), internal.WithRouter(r))
		require.NoError(t, err)
		require.Same(t, r, app.Router())

		res := app.Execute(context.Background(), "/ping", http.MethodGet)
		require.Equal(t, "ping", res.Action)

		require.ErrorIs(t, app.Reload(context.Background()), internal.ErrNoRoutes)
	})

	t.Run("snapshot store is filled", func(t *testing.T) {
		t.Parallel()

		store := snapshot.NewMemory()
		t.Cleanup(func() { _ = store.Close() })

		app := newApp(t, internal.WithStore(store))
		require.Equal(t, 3, app.Router().Len())
		require.Equal(t, 1, store.Len())
	})
}

func TestApp_Resolve(t *testing.T) {
	t.Parallel()

	negotiator, err := locale.New("en", "de")
	require.NoError(t, err)

	app := newApp(t,
		internal.WithLocales(negotiator),
		internal.WithRouterOptions(routing.WithNotFound("errors", "404")),
	)
	h := app.Handler()

	t.Run("matched with locale prefix", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/de/blog/7")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

		body := decode[resultBody](t, rec)
		require.Equal(t, []string{"locale", "post"}, body.Routes)
		require.Equal(t, "blog", body.Module)
		require.Equal(t, "show", body.Action)
		require.Equal(t, "7", body.Params["id"])
		require.Equal(t, "de", body.Params["lang"])
	})

	t.Run("home", func(t *testing.T) {
		t.Parallel()

		body := decode[resultBody](t, get(t, h, "/"))
		require.Equal(t, []string{"home"}, body.Routes)
		require.Equal(t, "index", body.Action)
	})

	t.Run("locale fallback from header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		body := decode[resultBody](t, rec)
		require.Equal(t, "de", body.Locale)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/nowhere")
		require.Equal(t, http.StatusNotFound, rec.Code)

		body := decode[resultBody](t, rec)
		require.True(t, body.NotFound)
		require.Equal(t, "errors", body.Module)
		require.Equal(t, "404", body.Action)
	})
}

func TestApp_Generate(t *testing.T) {
	t.Parallel()

	h := newApp(t).Handler()

	t.Run("implied locale", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/_gen/post?id=42")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[map[string]string](t, rec)
		require.Equal(t, "post", body["route"])
		require.Equal(t, "/en/blog/42", body["url"])
	})

	t.Run("explicit locale", func(t *testing.T) {
		t.Parallel()

		body := decode[map[string]string](t, get(t, h, "/_gen/post?id=1&lang=de"))
		require.Equal(t, "/de/blog/1", body["url"])
	})

	t.Run("unknown route", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/_gen/missing")
		require.Equal(t, http.StatusNotFound, rec.Code)

		body := decode[map[string]any](t, rec)
		require.Equal(t, "unknown route", body["error"])
		require.Equal(t, "missing", body["route"])
	})
}

func TestApp_Endpoints(t *testing.T) {
	t.Parallel()

	store := snapshot.NewMemory()
	t.Cleanup(func() { _ = store.Close() })

	metrics := telemetry.NewPrometheus()
	app := newApp(t,
		internal.WithStore(store),
		internal.WithMetrics(metrics),
		internal.WithReadinessCheck("extra", func(context.Context) error { return nil }),
	)
	h := app.Handler()

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/health/live")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "OK", rec.Body.String())
	})

	t.Run("readiness", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/health/ready?format=json")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[map[string]any](t, rec)
		checks, ok := body["checks"].(map[string]any)
		require.True(t, ok)
		require.Contains(t, checks, "router")
		require.Contains(t, checks, "snapshot")
		require.Contains(t, checks, "extra")
	})

	t.Run("routes", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/_routes")
		require.Equal(t, http.StatusOK, rec.Code)

		snap := decode[routing.Snapshot](t, rec)
		require.Equal(t, routing.SnapshotVersion, snap.Version)
		require.Len(t, snap.Routes, 3)
		require.Equal(t, "locale", snap.Routes[0].Name)
	})

	t.Run("metrics", func(t *testing.T) {
		t.Parallel()

		_ = get(t, h, "/blog/1")
		rec := get(t, h, "/metrics")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "pathway_routing_matches_total")
	})
}

func TestApp_Readiness_StoreDown(t *testing.T) {
	t.Parallel()

	store := snapshot.NewMemory()
	app := newApp(t, internal.WithStore(store))
	require.NoError(t, store.Close())

	rec := get(t, app.Handler(), "/health/ready")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestApp_Reload(t *testing.T) {
	t.Parallel()

	path := writeRoutes(t, routesYAML)
	app, err := internal.New(context.Background(), internal.WithRoutesFile(path))
	require.NoError(t, err)

	before := app.Router()
	require.Equal(t, 3, before.Len())

	extended := routesYAML + `
  - name: about
    pattern: "^/about$"
    module: site
    action: about
`
	require.NoError(t, os.WriteFile(path, []byte(extended), 0o600))
	require.NoError(t, app.Reload(context.Background()))
	require.Equal(t, 4, app.Router().Len())
	require.NotSame(t, before, app.Router())

	// A broken file keeps the active router.
	active := app.Router()
	require.NoError(t, os.WriteFile(path, []byte("routes:\n  - name: bad\n    pattern: \"/(x:\"\n"), 0o600))
	err = app.Reload(context.Background())
	require.ErrorIs(t, err, internal.ErrReload)
	require.True(t, routing.IsPatternSyntax(err))
	require.Same(t, active, app.Router())
}

func TestApp_Watch(t *testing.T) {
	t.Parallel()

	path := writeRoutes(t, routesYAML)
	app, err := internal.New(context.Background(),
		internal.WithRoutesFile(path),
		internal.WithWatch(20*time.Millisecond),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Watch(ctx) }()

	extended := routesYAML + `
  - name: about
    pattern: "^/about$"
    module: site
    action: about
`
	// The watcher may not be registered yet; keep writing until the reload lands.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(extended), 0o600)
		return app.Router().Len() == 4
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	app := newApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	var hooked bool
	done := make(chan error, 1)
	go func() {
		done <- app.Run("127.0.0.1:0",
			internal.WithContext(ctx),
			internal.ShutdownTimeout(time.Second),
			internal.ShutdownHook(func(context.Context) error {
				hooked = true
				return nil
			}),
		)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
		require.True(t, hooked)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestApp_Run_StartupHookFails(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	err := newApp(t).Run("127.0.0.1:0", internal.StartupHook(func(context.Context) error { return boom }))
	require.ErrorIs(t, err, boom)
}
