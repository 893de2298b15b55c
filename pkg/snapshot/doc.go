// Package snapshot stores exported routing trees so that processes can skip
// compiling route declarations on start.
//
// Stores keep [routing.Snapshot] values encoded as JSON:
//
//   - [Memory]: in-process, with optional TTL and LRU bound
//   - [Redis]: one string per key, see [OpenRedis]
//   - [Postgres]: the routing_snapshots table, migrated with goose on start
//   - [S3]: one object per key in an S3-compatible bucket
//
// A [Loader] ties a store to a route file. A route file checksum makes a
// good key because any edit produces a new one:
//
//	f, err := routeconfig.LoadFile("routes.yaml")
//	if err != nil {
//		return err
//	}
//	loader := snapshot.NewLoader(store, snapshot.WithLoaderLogger(log))
//	r, err := loader.LoadOrBuild(ctx, f.Checksum(),
//		func(context.Context) (*routing.Router, error) { return f.Build(opts...) },
//		opts...,
//	)
//
// Callbacks and custom sources are registered by name on the router and are
// not part of a snapshot, pass the same router options to both sides.
package snapshot
