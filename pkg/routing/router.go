package routing

import (
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/pathway/pkg/logger"
)

// EnvSourceName is the name under which the process environment is registered.
const EnvSourceName = "_ENV"

// Router holds the routing tree and runs matching and generation against it.
// Configuration (AddRoute, Import) takes a write lock; Execute and Gen may
// run concurrently.
type Router struct {
	logger    *slog.Logger
	observer  Observer
	sources   map[string]Source
	callbacks map[string]Callback
	index     map[string]int

	prefix         string
	moduleKey      string
	actionKey      string
	notFoundModule string
	notFoundAction string

	routes []*Route
	roots  []int

	mu sync.RWMutex

	enabled        bool
	strictAffected bool
}

// New creates an empty router.
func New(opts ...Option) *Router {
	r := &Router{
		logger:    logger.NewNope(),
		observer:  nopObserver{},
		sources:   map[string]Source{EnvSourceName: EnvSource()},
		callbacks: make(map[string]Callback),
		index:     make(map[string]int),
		moduleKey: "module",
		actionKey: "action",
		enabled:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prefix returns the URL prefix prepended by Gen.
func (r *Router) Prefix() string { return r.prefix }

// Enabled reports whether routing is active.
func (r *Router) Enabled() bool { return r.enabled }

// AddRoute adds a route, or updates it when opts.Name already exists,
// and returns its name. An empty parent declares a top-level route.
func (r *Router) AddRoute(pattern string, opts RouteOptions, parent string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := Compile(pattern)
	if err != nil {
		var rerr *Error
		if errors.As(err, &rerr) {
			rerr.Op = "add"
			rerr.Route = opts.Name
		}
		return "", err
	}

	var existing *Route
	if opts.Name != "" {
		if id, ok := r.index[opts.Name]; ok {
			existing = r.routes[id]
		}
	}

	parentID := -1
	switch {
	case existing != nil:
		recorded := ""
		if existing.parent >= 0 {
			recorded = r.routes[existing.parent].name
		}
		if parent != "" && parent != recorded {
			return "", &Error{
				Op:     "add",
				Route:  opts.Name,
				Detail: "declared under " + quoteOrTop(recorded) + ", cannot move under " + quoteOrTop(parent),
				Err:    ErrHierarchyViolation,
			}
		}
		parentID = existing.parent
	case parent != "":
		if parent == opts.Name {
			return "", &Error{Op: "add", Route: opts.Name, Detail: "route cannot be its own parent", Err: ErrHierarchyViolation}
		}
		id, ok := r.index[parent]
		if !ok {
			return "", &Error{Op: "add", Route: opts.Name, Detail: "parent " + quoteOrTop(parent) + " does not exist", Err: ErrUnknownRoute}
		}
		parentID = id
	}

	var cb Callback
	cbName := opts.Callback
	if cbName == "" && existing != nil {
		cbName = existing.callbackName
	}
	if cbName != "" {
		c, ok := r.callbacks[cbName]
		if !ok {
			return "", &Error{Op: "add", Route: opts.Name, Detail: "callback " + quoteOrTop(cbName), Err: ErrUnknownCallback}
		}
		cb = c
	}

	rt := &Route{stop: true, parent: parentID, id: len(r.routes)}
	if existing != nil {
		rt = existing.clone()
	}
	rt.pattern = p
	rt.callback = cb
	rt.callbackName = cbName
	mergeOptions(rt, opts)

	for name, d := range p.Defaults() {
		if _, ok := rt.defaults[name]; !ok {
			rt.defaults[name] = d
		}
	}

	rt.params = rt.params[:0]
	for _, name := range p.Names() {
		if !rt.ignored(name) {
			rt.params = append(rt.params, name)
		}
	}

	if existing != nil {
		rt.name = existing.name
		r.routes[existing.id] = rt
	} else {
		rt.name = opts.Name
		if rt.name == "" {
			rt.name = uuid.NewString()
		}
		r.routes = append(r.routes, rt)
		r.index[rt.name] = rt.id
		if parentID >= 0 {
			pr := r.routes[parentID]
			pr.children = append(pr.children, rt.id)
		} else {
			r.roots = append(r.roots, rt.id)
		}
	}

	r.relink(parentID)

	r.logger.Debug("route added",
		slog.String("route", rt.name),
		slog.String("pattern", pattern),
		slog.String("parent", parent),
		slog.Bool("updated", existing != nil),
	)

	return rt.name, nil
}

func mergeOptions(rt *Route, opts RouteOptions) {
	if opts.Stop != nil {
		rt.stop = *opts.Stop
	}
	if opts.Imply != nil {
		rt.imply = *opts.Imply
	}
	if opts.Cut != nil {
		v := *opts.Cut
		rt.cut = &v
	}
	if opts.Methods != nil {
		rt.methods = make([]string, 0, len(opts.Methods))
		for _, m := range opts.Methods {
			rt.methods = append(rt.methods, strings.ToUpper(m))
		}
	}
	if opts.OutputType != "" {
		rt.outputType = opts.OutputType
	}
	if opts.Module != "" {
		rt.module = opts.Module
	}
	if opts.Action != "" {
		rt.action = opts.Action
	}
	if opts.Locale != "" {
		rt.locale = opts.Locale
	}
	if opts.Source != "" {
		rt.source = opts.Source
	}
	if opts.Parameters != nil {
		rt.parameters = maps.Clone(opts.Parameters)
	}
	if opts.Ignores != nil {
		rt.ignores = slices.Clone(opts.Ignores)
	}
	if opts.Defaults != nil {
		rt.defaults = make(map[string]Default, len(opts.Defaults))
		for name, raw := range opts.Defaults {
			rt.defaults[name] = ParseDefault(raw)
		}
	}
	if rt.defaults == nil {
		rt.defaults = make(map[string]Default)
	}
}

// relink recomputes the non-stopping sibling lists of the children of
// parentID, or of the top-level routes when parentID is negative.
func (r *Router) relink(parentID int) {
	siblings := r.roots
	if parentID >= 0 {
		siblings = r.routes[parentID].children
	}
	var nostops []int
	for _, id := range siblings {
		rt := r.routes[id]
		rt.nostops = slices.Clone(nostops)
		if !rt.stop {
			nostops = append(nostops, id)
		}
	}
}

// Route returns a copy of the named route.
func (r *Router) Route(name string) (*Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.view(id), true
}

// Routes returns copies of all routes in declaration order.
func (r *Router) Routes() []*Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Route, len(r.routes))
	for id := range r.routes {
		out[id] = r.view(id)
	}
	return out
}

// Len returns the number of routes.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

func (r *Router) view(id int) *Route {
	rt := r.routes[id].clone()
	if rt.parent >= 0 {
		rt.parentName = r.routes[rt.parent].name
	}
	rt.childNames = r.names(rt.children)
	rt.nostopNames = r.names(rt.nostops)
	return rt
}

func (r *Router) names(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = r.routes[id].name
	}
	return out
}

func quoteOrTop(name string) string {
	if name == "" {
		return "top level"
	}
	return `"` + name + `"`
}
