package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

// RequireRole lets the request through only when the attached user has role.
// It must run after Session.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return domain.ErrAuthRequired
			}
			if user.Role != role {
				if role == domain.RoleAdmin {
					return domain.ErrAdminRequired
				}
				return domain.Unauthorized("%s access required", role)
			}
			return next(c)
		}
	}
}
