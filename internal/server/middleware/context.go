package middleware

import (
	"context"

	"medrekk/internal/account/domain"
)

type contextKey struct{ name string }

var (
	memberIDKey = contextKey{"member_id"}
	accountKey  = contextKey{"account"}
	clientIPKey = contextKey{"client_ip"}
)

// WithIdentity returns a context carrying the authenticated member and the
// resolved account. Handlers read these via GetMemberID and GetAccount.
func WithIdentity(ctx context.Context, memberID string, account *domain.Account) context.Context {
	ctx = context.WithValue(ctx, memberIDKey, memberID)
	ctx = context.WithValue(ctx, accountKey, account)
	return ctx
}

// GetMemberID returns the member_id from context and true if set; otherwise "", false.
func GetMemberID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(memberIDKey).(string)
	return v, ok
}

// GetAccount returns the resolved account from context and true if set.
func GetAccount(ctx context.Context) (*domain.Account, bool) {
	v, ok := ctx.Value(accountKey).(*domain.Account)
	return v, ok
}

// GetAccountID returns the resolved account's id from context and true if set.
func GetAccountID(ctx context.Context) (string, bool) {
	a, ok := GetAccount(ctx)
	if !ok {
		return "", false
	}
	return a.ID, true
}

// WithClientIP returns a context carrying the request's client IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the client IP from context, or "" if not set. Matches the
// audit logger's IPExtractor signature.
func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}
