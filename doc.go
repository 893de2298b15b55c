// Package pathway serves a hierarchical URL routing tree over HTTP.
//
// The routing engine itself lives in pkg/routing; this package wires it to a
// route file, an optional snapshot store, metrics, tracing and locale
// negotiation, and exposes the result as a small JSON service.
//
// # Quick Start
//
//	app, err := pathway.New(ctx,
//	    pathway.WithRoutesFile("routes.yaml"),
//	    pathway.WithLogger(log),
//	    pathway.WithWatch(0),
//	)
//	if err != nil {
//	    return err
//	}
//	return app.Run(":8080")
//
// # Endpoints
//
//	GET /health/live      liveness probe
//	GET /health/ready     readiness probe (router loaded, snapshot store reachable)
//	GET /metrics          prometheus metrics, when WithMetrics is set
//	GET /_routes          the routing tree as a snapshot
//	GET /_gen/{route}     URL generation; query values are route parameters
//	*                     the routing result of the request path
//
// A request that no route resolves to a module and action answers 404 with
// the partial result as body.
//
// # Reloading
//
// With WithWatch the route file is watched and the router rebuilt on change.
// The new router is swapped in atomically. A file that fails to compile is
// logged and the previous router keeps serving.
package pathway
