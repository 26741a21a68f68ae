package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contactbook/contacts-api/internal/core/domain"
)

// RequireRole enforces role-based access control on routes already behind
// Auth. The check itself is pure; absence of a resolved user means Auth did
// not run and is treated as forbidden rather than a panic.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(UserContextKey).(*domain.User)
			if err := domain.RequireRole(user, role); err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}
