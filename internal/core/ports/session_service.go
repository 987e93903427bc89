package ports

import (
	"net/http"
	"time"

	"github.com/openshelf/catalog-api/internal/core/domain"
)

// SessionService issues and validates signed session tokens.
type SessionService interface {
	Issue(role domain.Role) (token string, expiresAt time.Time, err error)
	// Validate never fails loudly: malformed input yields Valid == false.
	Validate(token string) domain.SessionValidation
	Cookie(token string, expiresAt time.Time) *http.Cookie
	ClearCookie() *http.Cookie
}

// CredentialChecker resolves an admin password to the role it unlocks.
type CredentialChecker interface {
	Authenticate(password string) (domain.Role, error)
}
