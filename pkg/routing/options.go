package routing

import "log/slog"

// Option configures a Router.
type Option func(*Router)

// WithPrefix sets the string prepended to every generated URL.
func WithPrefix(prefix string) Option {
	return func(r *Router) {
		r.prefix = prefix
	}
}

// WithLogger sets the logger. Defaults to a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithModuleKey sets the parameter name that receives a route's module.
// Defaults to "module".
func WithModuleKey(key string) Option {
	return func(r *Router) {
		if key != "" {
			r.moduleKey = key
		}
	}
}

// WithActionKey sets the parameter name that receives a route's action.
// Defaults to "action".
func WithActionKey(key string) Option {
	return func(r *Router) {
		if key != "" {
			r.actionKey = key
		}
	}
}

// WithNotFound sets the module and action substituted when execution
// ends without a module or action.
func WithNotFound(module, action string) Option {
	return func(r *Router) {
		r.notFoundModule = module
		r.notFoundAction = action
	}
}

// WithSource registers a named input source available to every execution.
func WithSource(name string, src Source) Option {
	return func(r *Router) {
		if name != "" && src != nil {
			r.sources[name] = src
		}
	}
}

// WithCallback registers a callback under name.
// Routes reference callbacks by name.
func WithCallback(name string, cb Callback) Option {
	return func(r *Router) {
		if name != "" && cb != nil {
			r.callbacks[name] = cb
		}
	}
}

// WithObserver installs an observer notified about matches and generations.
func WithObserver(o Observer) Option {
	return func(r *Router) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithEnabled toggles routing. A disabled router matches nothing.
func WithEnabled(enabled bool) Option {
	return func(r *Router) {
		r.enabled = enabled
	}
}

// WithStrictAffected makes Gen fail when an explicitly requested extra
// route is not a non-stopping sibling on the walked path.
// By default such routes are logged and ignored.
func WithStrictAffected(strict bool) Option {
	return func(r *Router) {
		r.strictAffected = strict
	}
}

// ExecOption configures a single Execute call.
type ExecOption func(*execConfig)

type execConfig struct {
	sources map[string]Source
}

// WithExecSource registers a source for one execution only.
// It shadows a router-level source with the same name.
func WithExecSource(name string, src Source) ExecOption {
	return func(c *execConfig) {
		if name == "" || src == nil {
			return
		}
		if c.sources == nil {
			c.sources = make(map[string]Source)
		}
		c.sources[name] = src
	}
}

// GenOption configures a single Gen call.
type GenOption func(*genConfig)

type genConfig struct {
	escape   func(string) string
	noPrefix bool
}

func defaultGenConfig() genConfig {
	return genConfig{escape: func(s string) string { return s }}
}

// WithoutPrefix omits the router prefix from the generated URL.
func WithoutPrefix() GenOption {
	return func(c *genConfig) {
		c.noPrefix = true
	}
}

// WithEscaper sets the function applied to explicit parameter values,
// for example url.PathEscape. Values are inserted verbatim by default.
func WithEscaper(fn func(string) string) GenOption {
	return func(c *genConfig) {
		if fn == nil {
			fn = func(s string) string { return s }
		}
		c.escape = fn
	}
}
