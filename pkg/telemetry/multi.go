package telemetry

import (
	"context"
	"time"

	"github.com/dmitrymomot/pathway/pkg/routing"
)

type multi []routing.Observer

// Multi returns an observer that notifies each non-nil observer in order.
func Multi(observers ...routing.Observer) routing.Observer {
	m := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multi) ObserveMatch(ctx context.Context, res *routing.Result, d time.Duration) {
	for _, o := range m {
		o.ObserveMatch(ctx, res, d)
	}
}

func (m multi) ObserveGenerate(ctx context.Context, route string, d time.Duration, err error) {
	for _, o := range m {
		o.ObserveGenerate(ctx, route, d, err)
	}
}
