package routing

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// SnapshotVersion is the version written by Export and accepted by Import.
const SnapshotVersion = 1

// Snapshot is a plain-data copy of the routing tree.
type Snapshot struct {
	Routes  []SnapshotRoute `json:"routes"  yaml:"routes"`
	Version int             `json:"version" yaml:"version"`
}

// SnapshotRoute is one route of a Snapshot, in declaration order.
type SnapshotRoute struct {
	Cut        *bool              `json:"cut,omitempty"         yaml:"cut,omitempty"`
	Parameters map[string]string  `json:"parameters,omitempty"  yaml:"parameters,omitempty"`
	Defaults   map[string]Default `json:"defaults,omitempty"    yaml:"defaults,omitempty"`

	Name       string `json:"name"                  yaml:"name"`
	Pattern    string `json:"pattern"               yaml:"pattern"`
	Parent     string `json:"parent,omitempty"      yaml:"parent,omitempty"`
	OutputType string `json:"output_type,omitempty" yaml:"output_type,omitempty"`
	Module     string `json:"module,omitempty"      yaml:"module,omitempty"`
	Action     string `json:"action,omitempty"      yaml:"action,omitempty"`
	Locale     string `json:"locale,omitempty"      yaml:"locale,omitempty"`
	Callback   string `json:"callback,omitempty"    yaml:"callback,omitempty"`
	Source     string `json:"source,omitempty"      yaml:"source,omitempty"`

	Methods     []string `json:"methods,omitempty"      yaml:"methods,omitempty"`
	Ignores     []string `json:"ignores,omitempty"      yaml:"ignores,omitempty"`
	Params      []string `json:"params,omitempty"       yaml:"params,omitempty"`
	Children    []string `json:"children,omitempty"     yaml:"children,omitempty"`
	NonStopping []string `json:"non_stopping,omitempty" yaml:"non_stopping,omitempty"`

	Stop  bool `json:"stop"            yaml:"stop"`
	Imply bool `json:"imply,omitempty" yaml:"imply,omitempty"`
}

// Export returns a snapshot of the tree.
func (r *Router) Export() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := &Snapshot{Version: SnapshotVersion, Routes: make([]SnapshotRoute, 0, len(r.routes))}
	for id := range r.routes {
		rt := r.view(id)
		sr := SnapshotRoute{
			Name:        rt.name,
			Pattern:     rt.pattern.source,
			Parent:      rt.parentName,
			Stop:        rt.stop,
			Imply:       rt.imply,
			OutputType:  rt.outputType,
			Module:      rt.module,
			Action:      rt.action,
			Locale:      rt.locale,
			Callback:    rt.callbackName,
			Source:      rt.source,
			Methods:     rt.methods,
			Ignores:     rt.ignores,
			Params:      rt.params,
			Parameters:  rt.parameters,
			Defaults:    rt.defaults,
			Children:    rt.childNames,
			NonStopping: rt.nostopNames,
		}
		if rt.cut != nil {
			sr.Cut = Bool(*rt.cut)
		}
		snap.Routes = append(snap.Routes, sr)
	}
	return snap
}

// Import replaces the tree with the routes of snap.
// The current tree is left untouched when snap is invalid.
func (r *Router) Import(snap *Snapshot) error {
	if snap == nil {
		return &Error{Op: "import", Detail: "nil snapshot", Err: ErrInvalidSnapshot}
	}
	if snap.Version != SnapshotVersion {
		return &Error{Op: "import", Detail: fmt.Sprintf("unsupported version %d", snap.Version), Err: ErrInvalidSnapshot}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	routes := make([]*Route, 0, len(snap.Routes))
	index := make(map[string]int, len(snap.Routes))
	var roots []int

	for _, sr := range snap.Routes {
		if sr.Name == "" {
			return &Error{Op: "import", Pattern: sr.Pattern, Detail: "route without name", Err: ErrInvalidSnapshot}
		}
		if _, dup := index[sr.Name]; dup {
			return &Error{Op: "import", Route: sr.Name, Detail: "duplicate route name", Err: ErrInvalidSnapshot}
		}
		p, err := Compile(sr.Pattern)
		if err != nil {
			return &Error{Op: "import", Route: sr.Name, Pattern: sr.Pattern, Err: errors.Join(ErrInvalidSnapshot, err)}
		}

		rt := &Route{
			id:           len(routes),
			parent:       -1,
			name:         sr.Name,
			pattern:      p,
			stop:         sr.Stop,
			imply:        sr.Imply,
			outputType:   sr.OutputType,
			module:       sr.Module,
			action:       sr.Action,
			locale:       sr.Locale,
			callbackName: sr.Callback,
			source:       sr.Source,
			methods:      slices.Clone(sr.Methods),
			ignores:      slices.Clone(sr.Ignores),
			parameters:   maps.Clone(sr.Parameters),
			defaults:     maps.Clone(sr.Defaults),
		}
		if rt.defaults == nil {
			rt.defaults = make(map[string]Default)
		}
		if sr.Cut != nil {
			rt.cut = Bool(*sr.Cut)
		}
		if rt.callbackName != "" {
			cb, ok := r.callbacks[rt.callbackName]
			if !ok {
				return &Error{Op: "import", Route: sr.Name, Detail: "callback " + quoteOrTop(rt.callbackName), Err: ErrUnknownCallback}
			}
			rt.callback = cb
		}
		for _, name := range p.Names() {
			if !rt.ignored(name) {
				rt.params = append(rt.params, name)
			}
		}

		if sr.Parent != "" {
			pid, ok := index[sr.Parent]
			if !ok {
				return &Error{Op: "import", Route: sr.Name, Detail: "parent " + quoteOrTop(sr.Parent) + " not declared before its child", Err: ErrInvalidSnapshot}
			}
			rt.parent = pid
			routes[pid].children = append(routes[pid].children, rt.id)
		} else {
			roots = append(roots, rt.id)
		}

		routes = append(routes, rt)
		index[rt.name] = rt.id
	}

	for _, sr := range snap.Routes {
		if sr.Children == nil {
			continue
		}
		got := make([]string, 0, len(sr.Children))
		for _, cid := range routes[index[sr.Name]].children {
			got = append(got, routes[cid].name)
		}
		if !slices.Equal(got, sr.Children) {
			return &Error{Op: "import", Route: sr.Name, Detail: "children do not match parent links", Err: ErrHierarchyViolation}
		}
	}

	r.routes = routes
	r.index = index
	r.roots = roots
	r.relink(-1)
	for id := range r.routes {
		r.relink(id)
	}
	return nil
}
