package domain

import "time"

// AuditLog records one authentication event: who did what, from where, when.
type AuditLog struct {
	ID        string
	AccountID string
	MemberID  string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}

// Audit actions written by the auth code paths.
const (
	ActionLoginSuccess     = "login_success"
	ActionLoginFailure     = "login_failure"
	ActionLogout           = "logout"
	ActionRegister         = "register"
	ActionAccountCreate    = "account_create"
	ActionTokenRejected    = "token_rejected"
	ActionPasswordChange   = "password_change"
	ActionMemberDeactivate = "member_deactivate"
)
