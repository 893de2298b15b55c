package routing

import (
	"context"
	"log/slog"
	"maps"
	"time"
)

// Result is the outcome of one execution.
type Result struct {
	router  *Router
	dynamic map[string]map[string]Default

	// Params holds the accumulated bindings, module and action included.
	Params map[string]string `json:"params"`

	Module     string `json:"module,omitempty"`
	Action     string `json:"action,omitempty"`
	OutputType string `json:"output_type,omitempty"`
	Locale     string `json:"locale,omitempty"`

	// Routes lists the matched route names in match order.
	Routes []string `json:"routes"`

	// NotFound is set when no module or action was selected.
	NotFound bool `json:"not_found"`
}

// Param returns a bound parameter or an empty string.
func (res *Result) Param(name string) string {
	return res.Params[name]
}

// Matched reports whether the named route matched.
func (res *Result) Matched(route string) bool {
	for _, name := range res.Routes {
		if name == route {
			return true
		}
	}
	return false
}

// Gen generates a URL like Router.Gen, additionally using the values
// captured during this execution for variables without a configured default.
func (res *Result) Gen(ctx context.Context, route string, params map[string]any, opts ...GenOption) (string, error) {
	if res.router == nil {
		return "", &Error{Op: "gen", Route: route, Err: ErrUnknownRoute}
	}
	return res.router.gen(ctx, route, params, res.dynamic, opts...)
}

// Execute matches input against the tree and returns the bindings.
// Routes restricted to methods are skipped unless method is listed.
func (r *Router) Execute(ctx context.Context, input, method string, opts ...ExecOption) *Result {
	start := time.Now()

	var cfg execConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	r.mu.RLock()
	res := r.execute(ctx, input, method, cfg)
	r.mu.RUnlock()

	r.observer.ObserveMatch(ctx, res, time.Since(start))
	r.logger.DebugContext(ctx, "routing executed",
		slog.String("input", input),
		slog.String("method", method),
		slog.Any("routes", res.Routes),
		slog.Bool("not_found", res.NotFound),
	)
	return res
}

func (r *Router) execute(ctx context.Context, input, method string, cfg execConfig) *Result {
	res := &Result{
		router:  r,
		dynamic: make(map[string]map[string]Default),
		Routes:  []string{},
	}
	vars := make(map[string]string)

	if r.enabled && len(r.roots) > 0 {
		// Source paths whose value was cut during this execution.
		cutSources := make(map[string]string)
		stack := [][]int{r.roots}

		for len(stack) > 0 {
			group := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			for _, id := range group {
				rt := r.routes[id]
				if !rt.allowsMethod(method) {
					continue
				}

				subject, bound := r.subject(rt, input, cutSources, cfg)
				m, ok := rt.pattern.match(subject)
				if !ok {
					if rt.callback != nil {
						rt.callback.OnNotMatched(ctx, rt.name)
					}
					continue
				}

				candidate := maps.Clone(vars)
				for name, d := range rt.defaults {
					if d.Value != "" && !rt.ignored(name) {
						candidate[name] = d.Value
					}
				}
				for name, v := range rt.parameters {
					candidate[name] = v
				}
				for _, name := range rt.params {
					if v, ok := m.values[name]; ok && v != "" {
						candidate[name] = v
					}
				}

				if rt.callback != nil {
					mc := &MatchContext{
						Route:    rt.name,
						Input:    subject,
						Captures: maps.Clone(m.values),
						Params:   candidate,
					}
					if !rt.callback.OnMatched(ctx, mc) {
						continue
					}
					candidate = mc.Params
					if candidate == nil {
						candidate = make(map[string]string)
					}
				}
				vars = candidate

				res.Routes = append(res.Routes, rt.name)

				for name, v := range m.values {
					if _, ok := rt.defaults[name]; ok {
						continue
					}
					if res.dynamic[rt.name] == nil {
						res.dynamic[rt.name] = make(map[string]Default)
					}
					res.dynamic[rt.name][name] = Default{Value: v}
				}

				if rt.module != "" {
					vars[r.moduleKey] = rt.module
				}
				if rt.action != "" {
					vars[r.actionKey] = rt.action
				}
				if rt.outputType != "" {
					res.OutputType = rt.outputType
				}
				if rt.locale != "" {
					res.Locale = rt.locale
				}

				if rt.Cuts() {
					rest := subject[:m.start] + subject[m.end:]
					if bound == "" {
						input = rest
					} else {
						cutSources[bound] = rest
					}
				}

				if len(rt.children) > 0 {
					stack = append(stack, rt.children)
					break
				}
				if rt.stop {
					break
				}
			}
		}
	}

	res.Params = vars
	res.Module = vars[r.moduleKey]
	res.Action = vars[r.actionKey]
	if res.Module == "" || res.Action == "" {
		res.NotFound = true
		if r.notFoundModule != "" || r.notFoundAction != "" {
			vars[r.moduleKey] = r.notFoundModule
			vars[r.actionKey] = r.notFoundAction
			res.Module = r.notFoundModule
			res.Action = r.notFoundAction
		}
	}
	return res
}

// subject returns the string rt matches against and, for source-bound
// routes, the source path it came from.
func (r *Router) subject(rt *Route, input string, cutSources map[string]string, cfg execConfig) (string, string) {
	if rt.source == "" {
		return input, ""
	}
	if v, ok := cutSources[rt.source]; ok {
		return v, rt.source
	}

	parts := splitSourcePath(rt.source)
	if len(parts) == 0 {
		return input, ""
	}
	src, ok := cfg.sources[parts[0]]
	if !ok {
		src, ok = r.sources[parts[0]]
	}
	if !ok {
		return input, ""
	}
	v, _ := src.Lookup(parts[1:])
	return v, rt.source
}
