// Package revocation provides the TTL-backed key/value store that records which
// issued access tokens are still live. An entry maps a token's jti to the claim
// digest computed at issuance; verification looks the digest up instead of
// recomputing it, so deleting or expiring the entry revokes the token no matter
// how long its signature remains valid.
package revocation

import (
	"context"
	"time"
)

// Store defines the revocation store operations. Entries are write-once: they
// are created at issuance, expire on their own, and are deleted only by an
// explicit logout. Implementations must provide read-your-writes consistency
// per key; no cross-key ordering is required.
type Store interface {
	// Set records digest for jti until ttl elapses.
	Set(ctx context.Context, jti, digest string, ttl time.Duration) error
	// Get returns the digest recorded for jti. ok is false if the entry was
	// never written or its TTL has elapsed.
	Get(ctx context.Context, jti string) (digest string, ok bool, err error)
	// Delete removes the entry for jti, revoking the token immediately.
	// Deleting a missing entry is not an error.
	Delete(ctx context.Context, jti string) error
}
