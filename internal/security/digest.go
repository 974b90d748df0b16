package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// ClaimDigest computes the keyed digest that binds an access token to its
// claim set. The stringified claim values are sorted, joined with ".", and
// HMAC-SHA-256'd with key; the result is hex-encoded. Sorting by value makes
// the digest independent of field order. Claim sets with identical values in
// different positions would collide, but the four claim values (subject,
// two timestamps, random id) occupy disjoint value spaces.
func ClaimDigest(key []byte, values []string) string {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(strings.Join(sorted, ".")))
	return hex.EncodeToString(mac.Sum(nil))
}
