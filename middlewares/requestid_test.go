package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pathway/middlewares"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	serve := func(mw func(http.Handler) http.Handler, req *http.Request) (*httptest.ResponseRecorder, string) {
		var captured string
		h := mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			captured = middlewares.GetRequestID(r.Context())
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec, captured
	}

	t.Run("generates new request ID when not present", func(t *testing.T) {
		t.Parallel()

		rec, id := serve(middlewares.RequestID(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotEmpty(t, id)
		require.Len(t, id, 36)
		require.Equal(t, id, rec.Header().Get("X-Request-ID"))
	})

	t.Run("uses existing request ID from header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "corr-1")
		rec, id := serve(middlewares.RequestID(), req)
		require.Equal(t, "corr-1", id)
		require.Equal(t, "corr-1", rec.Header().Get("X-Request-ID"))
	})

	t.Run("custom generator and response header", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.RequestID(
			middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
			middlewares.WithRequestIDResponseHeader("X-Trace"),
			middlewares.WithRequestIDHeaders("X-Upstream"),
		)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "ignored")
		rec, id := serve(mw, req)
		require.Equal(t, "fixed", id)
		require.Equal(t, "fixed", rec.Header().Get("X-Trace"))
	})

	t.Run("GetRequestID without middleware", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, middlewares.GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
	})

	t.Run("extractor", func(t *testing.T) {
		t.Parallel()

		_, id := serve(middlewares.RequestID(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotEmpty(t, id)

		extract := middlewares.RequestIDExtractor()
		_, ok := extract(httptest.NewRequest(http.MethodGet, "/", nil).Context())
		require.False(t, ok)
	})
}
