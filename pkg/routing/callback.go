package routing

import "context"

// MatchContext is passed to Callback.OnMatched.
// Params holds the bindings the match would commit; the callback may edit it.
type MatchContext struct {
	Captures map[string]string
	Params   map[string]string
	Route    string
	Input    string
}

// Callback hooks into matching and generation of the routes that reference it.
type Callback interface {
	// OnMatched runs after a route matched. Returning false vetoes the
	// match and the route is treated as not matching.
	OnMatched(ctx context.Context, m *MatchContext) bool

	// OnNotMatched runs when the route's pattern did not match.
	OnNotMatched(ctx context.Context, route string)

	// OnGenerate may rewrite the defaults used when generating a URL.
	OnGenerate(ctx context.Context, route string, defaults map[string]Default, params map[string]any) map[string]Default
}

// CallbackFuncs adapts plain functions to Callback. Nil fields are no-ops.
type CallbackFuncs struct {
	Matched    func(ctx context.Context, m *MatchContext) bool
	NotMatched func(ctx context.Context, route string)
	Generate   func(ctx context.Context, route string, defaults map[string]Default, params map[string]any) map[string]Default
}

// OnMatched calls f.Matched, accepting the match when it is nil.
func (f CallbackFuncs) OnMatched(ctx context.Context, m *MatchContext) bool {
	if f.Matched == nil {
		return true
	}
	return f.Matched(ctx, m)
}

// OnNotMatched calls f.NotMatched when it is set.
func (f CallbackFuncs) OnNotMatched(ctx context.Context, route string) {
	if f.NotMatched != nil {
		f.NotMatched(ctx, route)
	}
}

// OnGenerate calls f.Generate, returning defaults unchanged when it is nil.
func (f CallbackFuncs) OnGenerate(ctx context.Context, route string, defaults map[string]Default, params map[string]any) map[string]Default {
	if f.Generate == nil {
		return defaults
	}
	return f.Generate(ctx, route, defaults, params)
}
