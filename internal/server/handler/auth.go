// Package handler holds the HTTP handlers for the public API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"medrekk/internal/auth"
	"medrekk/internal/security"
	"medrekk/internal/server/httperr"
	"medrekk/internal/server/middleware"
	"medrekk/internal/tenant"
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler returns an AuthHandler backed by svc.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: svc}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
}

// Login handles POST /auth. Credentials arrive form-encoded; the Host header
// selects the tenant. All credential failures share one generic 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httperr.Unprocessable(w, "Malformed form body.", "")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		httperr.Unprocessable(w, "username and password are required.", "[username, password]")
		return
	}

	res, err := h.auth.Login(r.Context(), r.Host, username, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials),
			errors.Is(err, tenant.ErrNotMember),
			errors.Is(err, tenant.ErrNotOwner):
			httperr.Unauthorized(w, "Invalid credentials for "+username+".", "[username, password]")
		case errors.Is(err, tenant.ErrUnknownTenant):
			httperr.NotFound(w, "Account not found.")
		case errors.Is(err, security.ErrStoreUnavailable):
			httperr.Internal(w, err)
		default:
			httperr.Internal(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		ExpiresAt:   res.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout handles POST /auth/logout. Runs behind RequireAuth; the token has
// already been verified, so deleting its revocation entry ends its life even
// though its exp lies in the future.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	memberID, _ := middleware.GetMemberID(r.Context())
	accountID, _ := middleware.GetAccountID(r.Context())
	token := middleware.ExtractBearer(r)

	if err := h.auth.Logout(r.Context(), memberID, accountID, token); err != nil {
		if errors.Is(err, security.ErrStoreUnavailable) {
			httperr.Unavailable(w, "Authorization is temporarily unavailable.")
			return
		}
		httperr.Internal(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
