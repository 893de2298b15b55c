package routing

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"
)

var placeholderRx = regexp.MustCompile(`\(:([A-Za-z0-9_-]+):\)`)

// Gen builds a URL for route from its reverse template and those of its
// ancestors. route may name extra non-stopping siblings to include,
// separated by "+", e.g. "blog+locale". A nil parameter value removes
// the variable, including its default.
func (r *Router) Gen(ctx context.Context, route string, params map[string]any, opts ...GenOption) (string, error) {
	return r.gen(ctx, route, params, nil, opts...)
}

// AffectedRoutes returns the names of the routes that contribute to
// generating route, innermost first.
func (r *Router) AffectedRoutes(ctx context.Context, route string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids, err := r.affected(ctx, route)
	if err != nil {
		return nil, err
	}
	return r.names(ids), nil
}

func (r *Router) gen(ctx context.Context, route string, params map[string]any, dynamic map[string]map[string]Default, opts ...GenOption) (string, error) {
	start := time.Now()
	cfg := defaultGenConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	r.mu.RLock()
	url, err := r.render(ctx, route, params, dynamic, cfg)
	r.mu.RUnlock()

	r.observer.ObserveGenerate(ctx, route, time.Since(start), err)
	if err != nil {
		return "", err
	}
	return url, nil
}

func (r *Router) render(ctx context.Context, route string, params map[string]any, dynamic map[string]map[string]Default, cfg genConfig) (string, error) {
	ids, err := r.affected(ctx, route)
	if err != nil {
		return "", err
	}

	var url string
	defaults := make(map[string]Default)
	first := true

	for _, id := range ids {
		rt := r.routes[id]
		if rt.source != "" {
			continue
		}

		own := maps.Clone(rt.defaults)
		for name, d := range dynamic[rt.name] {
			if _, ok := own[name]; !ok {
				own[name] = d
			}
		}

		if first || rt.Cuts() {
			if rt.pattern.anchor == AnchorEnd {
				url += rt.pattern.reverse
			} else {
				url = rt.pattern.reverse + url
			}
		}

		if rt.callback != nil {
			own = rt.callback.OnGenerate(ctx, rt.name, own, params)
		}
		for name, d := range own {
			if _, ok := defaults[name]; !ok {
				defaults[name] = d
			}
		}
		first = false
	}

	values := make(map[string]string, len(params))
	removed := make(map[string]bool)
	for name, v := range params {
		if v == nil {
			removed[name] = true
			continue
		}
		values[name] = cfg.escape(fmt.Sprint(v))
	}
	for name, d := range defaults {
		if v, ok := values[name]; ok {
			values[name] = d.Prefix + v + d.Suffix
			continue
		}
		if !removed[name] && d.Value != "" {
			values[name] = d.String()
		}
	}

	url = placeholderRx.ReplaceAllStringFunc(url, func(ph string) string {
		return values[ph[2:len(ph)-2]]
	})

	if !cfg.noPrefix {
		url = r.prefix + url
	}
	return url, nil
}

// affected walks from the primary route to the root, collecting at every
// level the non-stopping siblings that were requested or are implied.
func (r *Router) affected(ctx context.Context, route string) ([]int, error) {
	names := strings.Split(route, "+")
	id, ok := r.index[names[0]]
	if !ok {
		return nil, &Error{Op: "gen", Route: names[0], Err: ErrUnknownRoute}
	}

	wanted := make(map[string]bool)
	for _, name := range names[1:] {
		if name != "" {
			wanted[name] = true
		}
	}

	var out []int
	for cur := id; cur >= 0; cur = r.routes[cur].parent {
		out = append(out, cur)
		nostops := r.routes[cur].nostops
		for i := len(nostops) - 1; i >= 0; i-- {
			sib := r.routes[nostops[i]]
			if wanted[sib.name] {
				delete(wanted, sib.name)
			} else if !sib.imply {
				continue
			}
			out = append(out, nostops[i])
		}
	}

	if len(wanted) > 0 {
		missing := slices.Sorted(maps.Keys(wanted))
		if r.strictAffected {
			return nil, &Error{
				Op:     "gen",
				Route:  names[0],
				Detail: "not a non-stopping sibling on the path: " + strings.Join(missing, ", "),
				Err:    ErrUnknownRoute,
			}
		}
		r.logger.WarnContext(ctx, "affected routes not found",
			slog.String("route", names[0]),
			slog.Any("missing", missing),
		)
	}

	return out, nil
}
