package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-authgate/eventgate/internal/core"

	"github.com/redis/rueidis/rueidisaside"
)

var _ core.Cache[struct{}] = (*RueidisAsideCache[struct{}])(nil)

// AsideOptions tunes the RESP3 client-side cache.
type AsideOptions struct {
	// ClientTTL bounds how long a value may be served from local memory.
	ClientTTL time.Duration
	// SizePerConnMB is the local cache size of each connection.
	SizePerConnMB int
}

// RueidisAsideCache serves hot events from local memory while Redis stays the
// source of truth. Redis pushes an invalidation when a key changes, and
// concurrent misses on one key share a single fetch.
type RueidisAsideCache[T any] struct {
	client rueidisaside.CacheAsideClient
	opts   RedisOptions
	ttl    time.Duration
}

func NewRueidisAsideCache[T any](opts RedisOptions, aside AsideOptions) (*RueidisAsideCache[T], error) {
	option := opts.clientOption()
	option.CacheSizeEachConn = aside.SizePerConnMB << 20

	client, err := rueidisaside.NewClient(rueidisaside.ClientOption{ClientOption: option})
	if err != nil {
		return nil, fmt.Errorf("failed to create rueidisaside client: %w", err)
	}
	return &RueidisAsideCache[T]{client: client, opts: opts, ttl: aside.ClientTTL}, nil
}

// Get never populates the cache; a key nobody has fetched yet is a miss.
func (r *RueidisAsideCache[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T

	raw, err := r.client.Get(ctx, r.ttl, r.opts.key(key),
		func(context.Context, string) (string, error) { return "", ErrCacheMiss },
	)
	switch {
	case errors.Is(err, ErrCacheMiss), err == nil && raw == "":
		return zero, ErrCacheMiss
	case err != nil:
		return zero, unavailable(err)
	}
	return decode[T](raw)
}

func (r *RueidisAsideCache[T]) GetWithFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (T, error),
) (T, error) {
	raw, err := r.client.Get(ctx, ttl, r.opts.key(key),
		func(ctx context.Context, _ string) (string, error) {
			fresh, err := fetchFunc(ctx, key)
			if err != nil {
				return "", err
			}
			return encode(fresh)
		},
	)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](raw)
}

func (r *RueidisAsideCache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	raw, err := encode(value)
	if err != nil {
		return err
	}
	c := r.client.Client()
	return unavailable(c.Do(ctx, c.B().Set().Key(r.opts.key(key)).Value(raw).Ex(ttl).Build()).Error())
}

// Delete removes the key in Redis; every instance drops its local copy when
// the invalidation arrives.
func (r *RueidisAsideCache[T]) Delete(ctx context.Context, key string) error {
	return unavailable(r.client.Del(ctx, r.opts.key(key)))
}

func (r *RueidisAsideCache[T]) Close() error {
	r.client.Close()
	return nil
}

func (r *RueidisAsideCache[T]) Health(ctx context.Context) error {
	return ping(ctx, r.client.Client())
}
