package cache

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"
)

// RedisOptions locates the Redis instance shared by the Redis-backed caches.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int

	// KeyPrefix namespaces every key, e.g. "eventgate:events:".
	KeyPrefix string
}

func (o RedisOptions) clientOption() rueidis.ClientOption {
	return rueidis.ClientOption{
		InitAddress: []string{o.Addr},
		Password:    o.Password,
		SelectDB:    o.DB,
	}
}

func (o RedisOptions) key(k string) string {
	return o.KeyPrefix + k
}

// unavailable tags a transport or server error so callers can treat it as a
// cache outage rather than a miss.
func unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
}

func ping(ctx context.Context, c rueidis.Client) error {
	return unavailable(c.Do(ctx, c.B().Ping().Build()).Error())
}
