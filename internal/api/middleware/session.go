package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/catalog-api/internal/core/domain"
	"github.com/openshelf/catalog-api/internal/core/ports"
)

// Context keys set by Session.
const (
	ContextRole      = "role"
	ContextExpiresAt = "session_expires_at"
)

type errorBody struct {
	Error string `json:"error"`
}

// Unauthenticated is the single response for every session failure. The
// cause is never revealed to the client.
func Unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorBody{Error: "unauthenticated"})
}

// TokensFromRequest returns the session tokens carried by the request in
// precedence order: the admin_session cookie, then an Authorization: Bearer
// header.
func TokensFromRequest(c echo.Context) []string {
	var tokens []string
	if ck, err := c.Cookie(domain.SessionCookieName); err == nil && ck.Value != "" {
		tokens = append(tokens, ck.Value)
	}
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		if t := strings.TrimSpace(parts[1]); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Authenticate validates the request's tokens in precedence order and returns
// the first valid session, so a stale cookie does not shadow a valid bearer
// token. presented is false when the request carries no token at all.
func Authenticate(c echo.Context, sessions ports.SessionService) (v domain.SessionValidation, presented bool) {
	for _, token := range TokensFromRequest(c) {
		presented = true
		if v = sessions.Validate(token); v.Valid {
			return v, true
		}
	}
	return v, presented
}

// Session validates the session token and injects the role into the context.
func Session(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, _ := Authenticate(c, sessions)
			if !v.Valid {
				return Unauthenticated(c)
			}

			c.Set(ContextRole, v.Role)
			c.Set(ContextExpiresAt, v.ExpiresAt)
			return next(c)
		}
	}
}
