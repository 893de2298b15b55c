// Package routing implements a hierarchical, pattern-based URL router that
// works in both directions: it matches an input string against a tree of
// routes to produce bindings, and generates URLs for named routes from the
// same declarations.
//
// # Patterns
//
// A route pattern is literal text mixed with parenthesised regular
// expression groups:
//
//	/blog/(id:[0-9]+)            // captures "id"
//	^/(lang:[a-z]{2})/           // anchored at the start
//	/list(/{page:\d+})?$         // optional, "/" is rendered around page
//
// [Compile] turns a pattern into a matching expression, a reverse template
// such as "/blog/(:id:)", the list of variables and defaults synthesised
// from literal group content.
//
// # Routes
//
// Routes are added with [Router.AddRoute] in declaration order, optionally
// under a parent. Each route may bind a module, an action, an output type,
// a locale and static parameters when it matches:
//
//	r := routing.New(routing.WithNotFound("errors", "404"))
//	r.AddRoute("^/(lang:[a-z]{2})/", routing.RouteOptions{
//		Name: "locale",
//		Stop: routing.Bool(false),
//		Cut:  routing.Bool(true),
//	}, "")
//	r.AddRoute("blog/(id:[0-9]+)$", routing.RouteOptions{
//		Name:   "blog",
//		Module: "blog",
//		Action: "show",
//	}, "")
//
// # Matching
//
// [Router.Execute] walks sibling groups in order. A matching route with
// children descends into them; a matching stopping route ends its group;
// a non-stopping route lets later siblings try as well. Routes that cut
// remove the matched text from the input seen by the routes after them.
//
//	res := r.Execute(ctx, "/en/blog/42", http.MethodGet)
//	// res.Routes == []string{"locale", "blog"}
//	// res.Param("lang") == "en", res.Param("id") == "42"
//
// Routes can match against a named [Source] instead of the input, for
// example the request host via "_SERVER[HTTP_HOST]" when the request goes
// through [Middleware].
//
// # Generation
//
// [Router.Gen] renders the reverse templates of a route and its ancestors.
// Non-stopping siblings are included when implied or requested with "+":
//
//	u, _ := r.Gen(ctx, "blog+locale", map[string]any{"id": 42, "lang": "en"})
//	// u == "/en/blog/42"
//
// [Result.Gen] additionally reuses the values captured during an execution.
//
// # Snapshots
//
// [Router.Export] and [Router.Import] convert the tree to and from plain
// data that can be cached, see package snapshot.
package routing
