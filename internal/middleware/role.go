package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ghm/hotel-booking/internal/model"
)

// RequireRole returns a middleware that lets the request through only
// when the session role is one of roles.  It must run after LoadSession.
// Anonymous callers get 401, authenticated callers with another role 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, role := CurrentUser(c)
			if user == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "login required"})
			}
			if !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireStaff is RequireRole for the staff roles.
func RequireStaff() echo.MiddlewareFunc {
	return RequireRole(model.RoleEmployee, model.RoleAdmin)
}
