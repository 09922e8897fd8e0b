package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-authgate/eventgate/internal/core"

	"github.com/redis/rueidis"
)

var _ core.Cache[struct{}] = (*RueidisCache[struct{}])(nil)

// RueidisCache keeps JSON-encoded values in Redis only. Every instance sees
// the same entries, at the price of one round trip per read.
type RueidisCache[T any] struct {
	client rueidis.Client
	opts   RedisOptions
}

// NewRueidisCache dials Redis and fails fast if it does not answer a PING
// before ctx expires.
func NewRueidisCache[T any](ctx context.Context, opts RedisOptions) (*RueidisCache[T], error) {
	option := opts.clientOption()
	option.DisableCache = true

	client, err := rueidis.NewClient(option)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	if err := ping(ctx, client); err != nil {
		client.Close()
		return nil, err
	}
	return &RueidisCache[T]{client: client, opts: opts}, nil
}

func (r *RueidisCache[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T

	raw, err := r.client.Do(ctx, r.client.B().Get().Key(r.opts.key(key)).Build()).ToString()
	switch {
	case rueidis.IsRedisNil(err):
		return zero, ErrCacheMiss
	case err != nil:
		return zero, unavailable(err)
	}
	return decode[T](raw)
}

func (r *RueidisCache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	raw, err := encode(value)
	if err != nil {
		return err
	}
	set := r.client.B().Set().Key(r.opts.key(key)).Value(raw).Ex(ttl).Build()
	return unavailable(r.client.Do(ctx, set).Error())
}

func (r *RueidisCache[T]) Delete(ctx context.Context, key string) error {
	return unavailable(r.client.Do(ctx, r.client.B().Del().Key(r.opts.key(key)).Build()).Error())
}

func (r *RueidisCache[T]) Close() error {
	r.client.Close()
	return nil
}

func (r *RueidisCache[T]) Health(ctx context.Context) error {
	return ping(ctx, r.client)
}

// GetWithFetch falls back to fetchFunc on any read failure, so a Redis outage
// degrades to direct database reads. Concurrent misses are not coalesced.
func (r *RueidisCache[T]) GetWithFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (T, error),
) (T, error) {
	if cached, err := r.Get(ctx, key); err == nil {
		return cached, nil
	}
	fresh, err := fetchFunc(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}
	// A failed write only costs the next reader another fetch.
	_ = r.Set(ctx, key, fresh, ttl)
	return fresh, nil
}
