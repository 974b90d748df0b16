package security

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"medrekk/internal/revocation"
)

var (
	// ErrInvalidToken is returned when a token is malformed, tampered with,
	// expired, or no longer live in the revocation store.
	ErrInvalidToken = errors.New("invalid token")
	// ErrStoreUnavailable is returned when the revocation store cannot be
	// reached. Verification fails closed; issuance surfaces it to the caller.
	ErrStoreUnavailable = errors.New("revocation store unavailable")
)

// revocationGrace is added to the token TTL when writing the revocation entry,
// so the store entry always outlives the token's own exp check.
const revocationGrace = time.Minute

// TokenProvider issues and verifies HS256 access tokens bound to the
// revocation store. The signing key and the digest key are distinct secrets:
// the first signs the JWT, the second keys the claim digest stored as aud.
type TokenProvider struct {
	signingKey []byte
	digestKey  []byte
	ttl        time.Duration
	store      revocation.Store
	nowF       func() time.Time
}

// NewTokenProvider returns a TokenProvider that signs with signingKey, digests
// with digestKey, and records issued tokens in store for ttl plus a one-minute
// grace period.
func NewTokenProvider(signingKey, digestKey []byte, ttl time.Duration, store revocation.Store) *TokenProvider {
	return &TokenProvider{
		signingKey: signingKey,
		digestKey:  digestKey,
		ttl:        ttl,
		store:      store,
		nowF:       func() time.Time { return time.Now().UTC() },
	}
}

// Issue issues an access token for the member acting within the account.
// sub is "memberID,accountID" — the only place tenant binding travels inside
// the token. The claim digest is written to the revocation store under the
// token's jti before signing; a store failure aborts issuance.
// Returns the signed token and its expiry.
func (p *TokenProvider) Issue(ctx context.Context, memberID, accountID string) (string, time.Time, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := p.nowF().Truncate(time.Second)
	expiresAt := now.Add(p.ttl)
	sub := memberID + "," + accountID

	aud := ClaimDigest(p.digestKey, digestValues(sub, now, expiresAt, jti))

	if err := p.store.Set(ctx, jti, aud, p.ttl+revocationGrace); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        jti,
		Audience:  jwt.ClaimStrings{aud},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Verify checks that tokenString is signature-valid, unexpired, and still live
// in the revocation store, and returns the member and account IDs from sub.
//
// The jti is read from the unverified claims first, and the expected digest is
// looked up in the store; only then is the signature verified together with
// the aud claim. A missing store entry means no aud value can match, so a
// token whose entry expired or was deleted fails even while its signature and
// exp are still valid. Revocation is "remove the entry", never a blocklist.
func (p *TokenProvider) Verify(ctx context.Context, tokenString string) (memberID, accountID string, err error) {
	jti, err := unverifiedJTI(tokenString)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	expected, ok, err := p.store.Get(ctx, jti)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, okM := t.Method.(*jwt.SigningMethodHMAC); !okM {
			return nil, ErrInvalidToken
		}
		return p.signingKey, nil
	}, jwt.WithTimeFunc(p.nowF))
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}

	// Signature alone is not proof of liveness: the aud claim must equal the
	// digest recorded at issuance, and a missing entry matches nothing.
	if !ok || len(claims.Audience) != 1 || claims.Audience[0] != expected {
		return "", "", ErrInvalidToken
	}

	memberID, accountID, okSub := strings.Cut(claims.Subject, ",")
	if !okSub || memberID == "" || accountID == "" {
		return "", "", ErrInvalidToken
	}
	return memberID, accountID, nil
}

// Revoke deletes the revocation entry for tokenString's jti, invalidating the
// token immediately regardless of its exp.
func (p *TokenProvider) Revoke(ctx context.Context, tokenString string) error {
	jti, err := unverifiedJTI(tokenString)
	if err != nil {
		return ErrInvalidToken
	}
	if err := p.store.Delete(ctx, jti); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// digestValues returns the stringified claim values the digest covers.
// Timestamps use decimal Unix seconds, the JWT wire form.
func digestValues(sub string, iat, exp time.Time, jti string) []string {
	return []string{
		sub,
		strconv.FormatInt(iat.Unix(), 10),
		strconv.FormatInt(exp.Unix(), 10),
		jti,
	}
}

// unverifiedJTI extracts the jti claim without checking the signature.
func unverifiedJTI(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
