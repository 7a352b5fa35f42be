package middleware

import "github.com/labstack/echo/v4"

// CurrentUser returns the username and role stored by LoadSession, or
// empty strings for an anonymous request.
func CurrentUser(c echo.Context) (username, role string) {
	username, _ = c.Get(CtxUsername).(string)
	role, _ = c.Get(CtxRole).(string)
	return username, role
}

// userKey identifies the caller for rate limiting; "guest" when anonymous.
func userKey(c echo.Context) string {
	if u, _ := CurrentUser(c); u != "" {
		return u
	}
	return "guest"
}
