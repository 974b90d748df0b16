// Package middleware holds the HTTP middleware chain: client IP capture,
// Bearer token verification, and tenant resolution.
package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	auditdomain "medrekk/internal/audit/domain"
	"medrekk/internal/security"
	"medrekk/internal/server/httperr"
	"medrekk/internal/tenant"
)

const bearerPrefix = "bearer "

// auditLogger matches audit.AuditLogger; nil disables auditing.
type auditLogger interface {
	LogEvent(ctx context.Context, accountID, memberID, action, resource, metadata string)
}

// RealIP stores the request's client address in the context for audit logging.
func RealIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.Header.Get("X-Forwarded-For")
		if i := strings.IndexByte(ip, ','); i >= 0 {
			ip = ip[:i]
		}
		ip = strings.TrimSpace(ip)
		if ip == "" {
			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				ip = host
			} else {
				ip = r.RemoteAddr
			}
		}
		next.ServeHTTP(w, r.WithContext(WithClientIP(r.Context(), ip)))
	})
}

// RequireAuth verifies the Bearer token and resolves the active account from
// the Host header before the handler runs. On success the context carries the
// member id and the resolved account.
//
// A token that fails verification, including one whose revocation entry is
// gone, is a 401. A revocation store outage is a 503: verification fails
// closed rather than trusting the signature alone. Tenant mismatches are 401
// (the token never authorizes another tenant) and an unknown tenant is 404.
func RequireAuth(tokens *security.TokenProvider, resolver *tenant.Resolver, audit auditLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := ExtractBearer(r)
			if token == "" {
				httperr.Unauthorized(w, "Not authenticated.", "token")
				return
			}

			memberID, claimedAccountID, err := tokens.Verify(ctx, token)
			if err != nil {
				if errors.Is(err, security.ErrStoreUnavailable) {
					httperr.Unavailable(w, "Authorization is temporarily unavailable.")
					return
				}
				logEvent(ctx, audit, "", "", auditdomain.ActionTokenRejected, "auth", "invalid token")
				httperr.Unauthorized(w, "Could not validate credentials.", "token")
				return
			}

			account, err := resolver.Resolve(ctx, r.Host, memberID, claimedAccountID)
			if err != nil {
				switch {
				case errors.Is(err, tenant.ErrUnknownTenant):
					httperr.NotFound(w, "Account not found.")
				case errors.Is(err, tenant.ErrNotMember), errors.Is(err, tenant.ErrNotOwner):
					logEvent(ctx, audit, "", memberID, auditdomain.ActionTokenRejected, "auth", err.Error())
					httperr.Unauthorized(w, "Could not validate credentials.", "token")
				default:
					httperr.Internal(w, err)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, memberID, account)))
		})
	}
}

// ExtractBearer returns the Bearer token from the Authorization header, or ""
// if missing or malformed. The scheme comparison is case-insensitive.
func ExtractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}

func logEvent(ctx context.Context, audit auditLogger, accountID, memberID, action, resource, metadata string) {
	if audit != nil {
		audit.LogEvent(ctx, accountID, memberID, action, resource, metadata)
	}
}
