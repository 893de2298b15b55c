package routing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pathway/pkg/routing"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	r := newRouter(t, []routeDef{
		{pattern: "^(sub:[a-z]+).example.com", opts: routing.RouteOptions{Name: "tenant", Stop: routing.Bool(false), Source: "_SERVER[SERVER_NAME]"}},
		{pattern: "^(role:[a-z]+)$", opts: routing.RouteOptions{Name: "role", Stop: routing.Bool(false), Source: "user.role"}},
		{pattern: "^/blog/(id:[0-9]+)$", opts: routing.RouteOptions{Name: "blog", Module: "blog", Action: "show"}},
	})

	serve := func(t *testing.T, target string, opts ...routing.MiddlewareOption) *routing.Result {
		t.Helper()

		var got *routing.Result
		h := routing.Middleware(r, opts...)(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			res, ok := routing.FromContext(req.Context())
			require.True(t, ok)
			got = res
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
		require.NotNil(t, got)
		return got
	}

	t.Run("stores the result in the context", func(t *testing.T) {
		t.Parallel()

		res := serve(t, "http://acme.example.com/blog/7")
		require.Equal(t, []string{"tenant", "blog"}, res.Routes)
		require.Equal(t, "acme", res.Param("sub"))
		require.Equal(t, "7", res.Param("id"))
	})

	t.Run("request sources", func(t *testing.T) {
		t.Parallel()

		res := serve(t, "http://localhost/blog/1", routing.WithRequestSources(func(*http.Request) map[string]routing.Source {
			return map[string]routing.Source{"user": routing.MapSource{"role": "admin"}}
		}))
		require.Equal(t, []string{"role", "blog"}, res.Routes)
		require.Equal(t, "admin", res.Param("role"))
	})

	t.Run("custom input", func(t *testing.T) {
		t.Parallel()

		res := serve(t, "http://localhost/ignored?p=/blog/3", routing.WithInput(func(req *http.Request) string {
			return req.URL.Query().Get("p")
		}))
		require.Equal(t, "3", res.Param("id"))
	})

	t.Run("locale fallback", func(t *testing.T) {
		t.Parallel()

		res := serve(t, "http://localhost/blog/1", routing.WithLocaleFallback(func(*http.Request) string { return "uk" }))
		require.Equal(t, "uk", res.Locale)
	})
}

func TestLogExtractor(t *testing.T) {
	t.Parallel()

	_, ok := routing.LogExtractor(context.Background())
	require.False(t, ok)

	ctx := routing.WithResult(context.Background(), &routing.Result{Routes: []string{"locale", "blog"}})
	attr, ok := routing.LogExtractor(ctx)
	require.True(t, ok)
	require.Equal(t, "routes", attr.Key)
	require.Equal(t, "locale+blog", attr.Value.String())
}
