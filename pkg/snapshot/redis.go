package snapshot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/pathway/pkg/routing"
)

// Redis stores encoded snapshots as Redis strings under "{prefix}:{key}".
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisOption configures the Redis store.
type RedisOption func(*Redis)

// WithKeyPrefix sets the key namespace. Default: "pathway".
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// WithRedisTTL sets the expiration of stored snapshots. Zero keeps them
// until they are replaced or deleted.
func WithRedisTTL(d time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = max(d, 0)
	}
}

// NewRedis creates a store on top of client. The client lifecycle stays
// with the caller.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: "pathway"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OpenRedis connects to url (redis:// or rediss://) and pings it,
// retrying with a linear backoff.
func OpenRedis(ctx context.Context, url string, retry Retry) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	retry = retry.orDefault()
	var lastErr error
	for i := range retry.Attempts {
		client := redis.NewClient(opts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		if i == retry.Attempts-1 {
			break
		}
		if err := wait(ctx, time.Duration(i+1)*retry.Interval); err != nil {
			return nil, errors.Join(ErrConnectionFailed, err)
		}
	}
	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

// Load returns the snapshot stored under key, or ErrNotFound.
func (r *Redis) Load(ctx context.Context, key string) (*routing.Snapshot, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decode(data)
}

// Save stores snap under key with the configured TTL.
func (r *Redis) Save(ctx context.Context, key string, snap *routing.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(key), data, r.ttl).Err()
}

// Delete removes the snapshot stored under key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Ping checks the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close is a no-op, the client is closed by its owner.
func (r *Redis) Close() error {
	return nil
}

func (r *Redis) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

var _ Store = (*Redis)(nil)
