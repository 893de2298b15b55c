package routing

import (
	"context"
	"time"
)

// Observer is notified after every execution and generation.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveMatch(ctx context.Context, res *Result, elapsed time.Duration)
	ObserveGenerate(ctx context.Context, route string, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveMatch(context.Context, *Result, time.Duration) {}

func (nopObserver) ObserveGenerate(context.Context, string, time.Duration, error) {}
