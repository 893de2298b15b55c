package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrymomot/pathway/pkg/routing"
)

// Store persists exported route trees under a key.
type Store interface {
	// Load returns the snapshot stored under key or ErrNotFound.
	Load(ctx context.Context, key string) (*routing.Snapshot, error)

	// Save stores snap under key, replacing any previous snapshot.
	Save(ctx context.Context, key string, snap *routing.Snapshot) error

	// Delete removes the snapshot stored under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources owned by the store.
	Close() error
}

// Pinger is implemented by stores that can report their connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthcheck returns a readiness check for store.
// Stores that do not implement Pinger are always healthy.
func Healthcheck(store Store) func(context.Context) error {
	return func(ctx context.Context) error {
		if store == nil {
			return ErrHealthcheckFailed
		}
		p, ok := store.(Pinger)
		if !ok {
			return nil
		}
		if err := p.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Retry configures connection attempts of the networked stores.
// Attempt n waits n*Interval before the next one.
type Retry struct {
	Attempts int
	Interval time.Duration
}

// DefaultRetry is used when a zero Retry is passed.
var DefaultRetry = Retry{Attempts: 3, Interval: 5 * time.Second}

func (r Retry) orDefault() Retry {
	if r.Attempts <= 0 {
		return DefaultRetry
	}
	return r
}

func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func encode(snap *routing.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, errors.Join(ErrMarshal, routing.ErrInvalidSnapshot)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func decode(data []byte) (*routing.Snapshot, error) {
	var snap routing.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Join(ErrUnmarshal, err)
	}
	return &snap, nil
}
