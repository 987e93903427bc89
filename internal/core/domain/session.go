package domain

import "time"

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "admin_session"

// SessionValidation is the outcome of validating a session token.
// When Valid is false, Reason is ErrInvalidSession or ErrExpiredSession and the
// other fields are zero.
type SessionValidation struct {
	Valid     bool
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
	Reason    error
}

// Invalid builds a failed validation with the given reason.
func Invalid(reason error) SessionValidation {
	return SessionValidation{Reason: reason}
}
