package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/catalog-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Session.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(domain.Role)
			if role == "" {
				return Unauthenticated(c)
			}
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, errorBody{Error: "forbidden"})
			}
			return next(c)
		}
	}
}
