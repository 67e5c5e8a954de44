package domain

import "time"

// AuthAction identifies the kind of authentication event being audited.
type AuthAction string

const (
	ActionRegister    AuthAction = "register"
	ActionLogin       AuthAction = "login"
	ActionLoginFailed AuthAction = "login_failed"
)

// AuthEvent is an audit record of one credential operation. Failed
// logins carry the attempted email but no user id.
type AuthEvent struct {
	ID      string     `json:"id,omitempty"`
	Action  AuthAction `json:"action"`
	Email   string     `json:"email"`
	UserID  string     `json:"user_id,omitempty"`
	Success bool       `json:"success"`
	At      time.Time  `json:"at"`
}
