package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/pathway/pkg/snapshot"
)

// openStore opens the configured snapshot store. The returned close function
// releases the store and its connections; it is never nil.
func openStore(ctx context.Context, cfg StoreConfig, log *slog.Logger) (snapshot.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case StoreNone, "":
		return nil, noop, nil

	case StoreMemory:
		store := snapshot.NewMemory()
		return store, store.Close, nil

	case StoreRedis:
		client, err := snapshot.OpenRedis(ctx, cfg.URL, snapshot.DefaultRetry)
		if err != nil {
			return nil, noop, err
		}
		var opts []snapshot.RedisOption
		if cfg.Prefix != "" {
			opts = append(opts, snapshot.WithKeyPrefix(cfg.Prefix))
		}
		return snapshot.NewRedis(client, opts...), client.Close, nil

	case StorePostgres:
		pool, err := snapshot.ConnectPostgres(ctx, cfg.URL, snapshot.DefaultRetry)
		if err != nil {
			return nil, noop, err
		}
		store, err := snapshot.NewPostgres(ctx, pool, snapshot.WithMigrationLogger(log))
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		return store, func() error { pool.Close(); return nil }, nil

	case StoreS3:
		store, err := snapshot.NewS3(snapshot.S3Config{
			Bucket:    cfg.Bucket,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			Prefix:    cfg.Prefix,
			PathStyle: cfg.Endpoint != "",
		})
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil

	default:
		return nil, noop, fmt.Errorf("%w: unknown store driver %q", ErrConfig, cfg.Driver)
	}
}
