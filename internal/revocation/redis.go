package revocation

import (
	"context"
	"errors"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// keyPrefix namespaces revocation entries in a shared Redis database.
const keyPrefix = "revocation:"

// RedisStore is a Store backed by Redis, relying on Redis key TTLs for expiry.
type RedisStore struct {
	c *rdb.Client
}

// NewRedisStore returns a Store that connects to the Redis at addr using the
// given logical database.
func NewRedisStore(addr string, db int) *RedisStore {
	return &RedisStore{c: rdb.NewClient(&rdb.Options{Addr: addr, DB: db})}
}

// Set records digest for jti with the given TTL.
func (s *RedisStore) Set(ctx context.Context, jti, digest string, ttl time.Duration) error {
	return s.c.Set(ctx, keyPrefix+jti, digest, ttl).Err()
}

// Get returns the digest for jti. A missing key is not an error.
func (s *RedisStore) Get(ctx context.Context, jti string) (string, bool, error) {
	v, err := s.c.Get(ctx, keyPrefix+jti).Result()
	if err != nil {
		if errors.Is(err, rdb.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

// Delete removes the entry for jti.
func (s *RedisStore) Delete(ctx context.Context, jti string) error {
	return s.c.Del(ctx, keyPrefix+jti).Err()
}

// Ping verifies the Redis connection; used by startup checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.c.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.c.Close()
}
