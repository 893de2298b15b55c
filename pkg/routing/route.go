package routing

import (
	"maps"
	"slices"
	"strings"
)

// RouteOptions describes a route passed to AddRoute.
//
// When the name already exists the call updates the route: fields left at
// their zero value keep the recorded value, everything else replaces it.
type RouteOptions struct {
	// Stop ends matching of the sibling group after this route matched. Defaults to true.
	Stop *bool
	// Imply includes this route in generation even when not requested explicitly.
	Imply *bool
	// Cut removes the matched text from the input for subsequent routes.
	// When nil, routes with children cut and leaves do not.
	Cut *bool

	// Parameters are static bindings applied when the route matches.
	Parameters map[string]string
	// Defaults use the "prefix{value}suffix" notation, see ParseDefault.
	Defaults map[string]string

	Name       string
	OutputType string
	Module     string
	Action     string
	Locale     string
	// Callback is the name of a callback registered with WithCallback.
	Callback string
	// Source binds the route to a named input source, e.g. "_SERVER[HTTP_HOST]".
	Source string

	// Methods restricts the route to request methods. Empty matches any.
	Methods []string
	// Ignores lists variables that are captured but never bound.
	Ignores []string
}

// Bool returns a pointer to v, for the optional fields of RouteOptions.
func Bool(v bool) *bool {
	return &v
}

// Route is a node of the routing tree.
// Values returned by the Router are snapshots and safe to keep.
type Route struct {
	pattern    *Pattern
	cut        *bool
	callback   Callback
	parameters map[string]string
	defaults   map[string]Default

	name         string
	outputType   string
	module       string
	action       string
	locale       string
	callbackName string
	source       string
	parentName   string

	methods  []string
	ignores  []string
	params   []string
	children []int
	nostops  []int

	// Resolved names, filled on the copies handed out by the Router.
	childNames  []string
	nostopNames []string

	id     int
	parent int

	stop  bool
	imply bool
}

// Name returns the unique route name.
func (r *Route) Name() string { return r.name }

// Pattern returns the compiled pattern.
func (r *Route) Pattern() *Pattern { return r.pattern }

// Stop reports whether the route stops its sibling group.
func (r *Route) Stop() bool { return r.stop }

// Imply reports whether the route is implied during generation.
func (r *Route) Imply() bool { return r.imply }

// Cut returns the explicit cut flag and whether it was set.
func (r *Route) Cut() (bool, bool) {
	if r.cut == nil {
		return false, false
	}
	return *r.cut, true
}

// Cuts reports the effective cut behaviour.
func (r *Route) Cuts() bool {
	if r.cut != nil {
		return *r.cut
	}
	return len(r.children) > 0
}

// Methods returns the accepted request methods. Empty accepts any method.
func (r *Route) Methods() []string { return slices.Clone(r.methods) }

// OutputType returns the output type selected when the route matches.
func (r *Route) OutputType() string { return r.outputType }

// Module returns the module bound when the route matches.
func (r *Route) Module() string { return r.module }

// Action returns the action bound when the route matches.
func (r *Route) Action() string { return r.action }

// Locale returns the locale selected when the route matches.
func (r *Route) Locale() string { return r.locale }

// Callback returns the name of the registered callback, if any.
func (r *Route) Callback() string { return r.callbackName }

// Source returns the source the route matches against, e.g. "_SERVER[HTTP_HOST]".
func (r *Route) Source() string { return r.source }

// Ignores returns the pattern variables that are not bound.
func (r *Route) Ignores() []string { return slices.Clone(r.ignores) }

// Parameters returns the static parameters bound before captures.
func (r *Route) Parameters() map[string]string { return maps.Clone(r.parameters) }

// Defaults returns the effective defaults, explicit and synthesised.
func (r *Route) Defaults() map[string]Default { return maps.Clone(r.defaults) }

// Parent returns the parent route name, empty for top-level routes.
func (r *Route) Parent() string { return r.parentName }

// Children returns the child route names in declaration order.
func (r *Route) Children() []string { return slices.Clone(r.childNames) }

// NonStopping returns the earlier non-stopping siblings of the route.
func (r *Route) NonStopping() []string { return slices.Clone(r.nostopNames) }

// ParamNames returns the pattern variables minus ignores, in declaration order.
func (r *Route) ParamNames() []string { return slices.Clone(r.params) }

func (r *Route) clone() *Route {
	c := *r
	c.methods = slices.Clone(r.methods)
	c.ignores = slices.Clone(r.ignores)
	c.params = slices.Clone(r.params)
	c.children = slices.Clone(r.children)
	c.nostops = slices.Clone(r.nostops)
	c.parameters = maps.Clone(r.parameters)
	c.defaults = maps.Clone(r.defaults)
	return &c
}

func (r *Route) ignored(name string) bool {
	return slices.Contains(r.ignores, name)
}

func (r *Route) allowsMethod(method string) bool {
	if len(r.methods) == 0 {
		return true
	}
	return slices.ContainsFunc(r.methods, func(m string) bool {
		return strings.EqualFold(m, method)
	})
}
