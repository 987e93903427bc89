package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/openshelf/catalog-api/internal/api/middleware"
	"github.com/openshelf/catalog-api/internal/core/domain"
)

// ctxRole extracts the role injected by the Session middleware. A missing
// role means the route was wired without Session and is reported as an
// invalid session rather than trusted.
func ctxRole(c echo.Context) (domain.Role, error) {
	role, _ := c.Get(middleware.ContextRole).(domain.Role)
	if role == "" {
		return "", domain.ErrInvalidSession
	}
	return role, nil
}
