package snapshot

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/pathway/pkg/logger"
	"github.com/dmitrymomot/pathway/pkg/routing"
)

// BuildFunc builds a router from its declarations.
type BuildFunc func(ctx context.Context) (*routing.Router, error)

// Loader restores routers from the snapshots of one store and builds them on a miss.
// Concurrent calls for the same key share one load or build.
type Loader struct {
	store  Store
	logger *slog.Logger
	group  singleflight.Group
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLoaderLogger sets the logger that reports store failures.
func WithLoaderLogger(l *slog.Logger) LoaderOption {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// NewLoader creates a loader for store. A nil store makes every call build.
func NewLoader(store Store, opts ...LoaderOption) *Loader {
	ld := &Loader{
		store:  store,
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// LoadOrBuild returns a router for key. A snapshot stored under key is
// imported into a router created with opts. Otherwise build runs and its
// export is saved to the store. Load and save failures are logged and never
// fail the call: the built router is returned regardless.
//
// The router passed to build should be created with the same opts, since
// callbacks and sources are not part of a snapshot.
func (ld *Loader) LoadOrBuild(ctx context.Context, key string, build BuildFunc, opts ...routing.Option) (*routing.Router, error) {
	if ld.store == nil {
		return build(ctx)
	}

	v, err, _ := ld.group.Do(key, func() (any, error) {
		r, err := load(ctx, ld.store, key, opts)
		switch {
		case err == nil:
			ld.logger.DebugContext(ctx, "routes restored from snapshot", slog.String("key", key))
			return r, nil
		case errors.Is(err, ErrNotFound):
			ld.logger.DebugContext(ctx, "snapshot not found", slog.String("key", key))
		default:
			ld.logger.WarnContext(ctx, "snapshot load failed, rebuilding",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}

		r, err = build(ctx)
		if err != nil {
			return nil, err
		}
		if err := ld.store.Save(ctx, key, r.Export()); err != nil {
			ld.logger.WarnContext(ctx, "snapshot save failed",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*routing.Router), nil
}

func load(ctx context.Context, store Store, key string, opts []routing.Option) (*routing.Router, error) {
	snap, err := store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	r := routing.New(opts...)
	if err := r.Import(snap); err != nil {
		return nil, errors.Join(ErrUnmarshal, err)
	}
	return r, nil
}
