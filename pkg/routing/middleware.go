package routing

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// Executor runs the routing tree against an input.
// Router implements it; hosts that swap routers at runtime can supply their own.
type Executor interface {
	Execute(ctx context.Context, input, method string, opts ...ExecOption) *Result
}

type resultKey struct{}

// WithResult returns a context carrying res.
func WithResult(ctx context.Context, res *Result) context.Context {
	return context.WithValue(ctx, resultKey{}, res)
}

// FromContext returns the Result stored by Middleware.
func FromContext(ctx context.Context) (*Result, bool) {
	res, ok := ctx.Value(resultKey{}).(*Result)
	return res, ok && res != nil
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	input          func(*http.Request) string
	localeFallback func(*http.Request) string
	sources        func(*http.Request) map[string]Source
}

// WithInput sets the function deriving the routing input from a request.
// Defaults to the URL path.
func WithInput(fn func(*http.Request) string) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.input = fn
		}
	}
}

// WithLocaleFallback sets the locale used when no matched route selected one.
func WithLocaleFallback(fn func(*http.Request) string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.localeFallback = fn
	}
}

// WithRequestSources adds per-request sources, e.g. the authenticated user.
func WithRequestSources(fn func(*http.Request) map[string]Source) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.sources = fn
	}
}

// Middleware executes the routing tree for every request and stores the
// Result in the request context. The request is exposed to routes as the
// "_SERVER" source.
func Middleware(exec Executor, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{
		input: func(r *http.Request) string { return r.URL.Path },
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			execOpts := []ExecOption{WithExecSource(ServerSourceName, ServerSource(r))}
			if cfg.sources != nil {
				for name, src := range cfg.sources(r) {
					execOpts = append(execOpts, WithExecSource(name, src))
				}
			}

			res := exec.Execute(r.Context(), cfg.input(r), r.Method, execOpts...)
			if res.Locale == "" && cfg.localeFallback != nil {
				res.Locale = cfg.localeFallback(r)
			}

			next.ServeHTTP(w, r.WithContext(WithResult(r.Context(), res)))
		})
	}
}

// LogExtractor adds the matched routes of the current request to log records.
// It has the signature of logger.ContextExtractor.
func LogExtractor(ctx context.Context) (slog.Attr, bool) {
	res, ok := FromContext(ctx)
	if !ok || len(res.Routes) == 0 {
		return slog.Attr{}, false
	}
	return slog.String("routes", strings.Join(res.Routes, "+")), true
}
