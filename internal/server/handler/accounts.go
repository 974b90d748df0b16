package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"medrekk/internal/account"
	accountdomain "medrekk/internal/account/domain"
	"medrekk/internal/auth"
	memberdomain "medrekk/internal/member/domain"
	memberrepo "medrekk/internal/member/repository"
	"medrekk/internal/server/httperr"
	"medrekk/internal/server/middleware"
)

// MemberLister lists members whose home account is the given account.
type MemberLister interface {
	ListByAccount(ctx context.Context, accountID string) ([]*memberdomain.Member, error)
}

// AccountsHandler serves account registration, the current account, and its
// member roster.
type AccountsHandler struct {
	accounts *account.Service
	auth     *auth.Service
	members  MemberLister
}

// NewAccountsHandler returns an AccountsHandler.
func NewAccountsHandler(accounts *account.Service, authSvc *auth.Service, members MemberLister) *AccountsHandler {
	return &AccountsHandler{accounts: accounts, auth: authSvc, members: members}
}

type accountCreateRequest struct {
	AccountName string `json:"account_name"`
	UserName    string `json:"user_name"`
	Password    string `json:"password"`
}

type accountResponse struct {
	ID          string `json:"id"`
	AccountName string `json:"account_name"`
	Subdomain   string `json:"account_subdomain"`
	OwnerID     string `json:"owner_id"`
	Status      string `json:"status"`
	TrialEndsAt string `json:"trial_ends_at"`
	CreatedAt   string `json:"created_at"`
}

func toAccountResponse(a *accountdomain.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		AccountName: a.Name,
		Subdomain:   a.Subdomain,
		OwnerID:     a.OwnerID,
		Status:      string(a.Status),
		TrialEndsAt: a.TrialEndsAt.UTC().Format(time.RFC3339),
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /accounts: registers the account together with its
// owner member.
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req accountCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Unprocessable(w, "Malformed JSON body.", "")
		return
	}
	if req.AccountName == "" || req.UserName == "" || req.Password == "" {
		httperr.Unprocessable(w, "account_name, user_name and password are required.", "[account_name, user_name, password]")
		return
	}

	a, err := h.accounts.Create(r.Context(), req.AccountName, req.UserName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrNameTaken):
			httperr.Conflict(w, "Account name '"+req.AccountName+"' is already taken.", "account_name")
		case errors.Is(err, account.ErrInvalidName):
			httperr.Unprocessable(w, "Account name must not be empty.", "account_name")
		case isDuplicateUsername(err):
			httperr.Conflict(w, "Username "+req.UserName+" is already used.", "username")
		default:
			httperr.Internal(w, err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(a))
}

// Self handles GET /accounts/self: the account resolved for this request.
func (h *AccountsHandler) Self(w http.ResponseWriter, r *http.Request) {
	a, ok := middleware.GetAccount(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(a))
}

type memberCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type memberResponse struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

func toMemberResponse(m *memberdomain.Member) memberResponse {
	return memberResponse{
		ID:        m.ID,
		AccountID: m.AccountID,
		Username:  m.Username,
		Active:    m.Active,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// AddMember handles POST /accounts/self/members: registers a member into the
// resolved account.
func (h *AccountsHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}

	var req memberCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Unprocessable(w, "Malformed JSON body.", "")
		return
	}
	if req.Username == "" || req.Password == "" {
		httperr.Unprocessable(w, "username and password are required.", "[username, password]")
		return
	}

	m, err := h.auth.RegisterMember(r.Context(), accountID, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			httperr.Conflict(w, "Username "+req.Username+" is already used.", "username")
			return
		}
		httperr.Internal(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMemberResponse(m))
}

// ListMembers handles GET /accounts/self/members.
func (h *AccountsHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}

	ms, err := h.members.ListByAccount(r.Context(), accountID)
	if err != nil {
		httperr.Internal(w, err)
		return
	}
	out := make([]memberResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMemberResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetMember handles GET /accounts/self/members/{memberID}.
func (h *AccountsHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}

	m, err := h.auth.GetMember(r.Context(), accountID, chi.URLParam(r, "memberID"))
	if err != nil {
		if errors.Is(err, auth.ErrMemberNotFound) {
			httperr.NotFound(w, "Member not found.")
			return
		}
		httperr.Internal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponse(m))
}

type memberPasswordRequest struct {
	Password string `json:"password"`
}

// UpdateMemberPassword handles PUT /accounts/self/members/{memberID}/password.
func (h *AccountsHandler) UpdateMemberPassword(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}

	var req memberPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Unprocessable(w, "Malformed JSON body.", "")
		return
	}
	if req.Password == "" {
		httperr.Unprocessable(w, "password is required.", "password")
		return
	}

	if err := h.auth.ChangePassword(r.Context(), accountID, chi.URLParam(r, "memberID"), req.Password); err != nil {
		if errors.Is(err, auth.ErrMemberNotFound) {
			httperr.NotFound(w, "Member not found.")
			return
		}
		httperr.Internal(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeactivateMember handles DELETE /accounts/self/members/{memberID}: clears
// the member's active flag so they can no longer log in.
func (h *AccountsHandler) DeactivateMember(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httperr.Unauthorized(w, "Not authenticated.", "token")
		return
	}

	if err := h.auth.DeactivateMember(r.Context(), accountID, chi.URLParam(r, "memberID")); err != nil {
		if errors.Is(err, auth.ErrMemberNotFound) {
			httperr.NotFound(w, "Member not found.")
			return
		}
		httperr.Internal(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isDuplicateUsername(err error) bool {
	return errors.Is(err, auth.ErrUsernameTaken) || errors.Is(err, memberrepo.ErrDuplicateUsername)
}
