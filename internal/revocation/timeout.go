package revocation

import (
	"context"
	"time"
)

// TimeoutStore bounds every store round trip with a deadline. A call that
// exceeds the deadline returns the context error, which verification treats
// as a store failure and fails closed.
type TimeoutStore struct {
	inner   Store
	timeout time.Duration
}

// WithTimeout wraps inner so every call carries a deadline of d.
func WithTimeout(inner Store, d time.Duration) *TimeoutStore {
	return &TimeoutStore{inner: inner, timeout: d}
}

func (s *TimeoutStore) Set(ctx context.Context, jti, digest string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.Set(ctx, jti, digest, ttl)
}

func (s *TimeoutStore) Get(ctx context.Context, jti string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.Get(ctx, jti)
}

func (s *TimeoutStore) Delete(ctx context.Context, jti string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.Delete(ctx, jti)
}
