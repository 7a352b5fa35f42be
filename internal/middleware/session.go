package middleware // package middleware contains reusable HTTP middleware for the API

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ghm/hotel-booking/internal/utils"
)

// SessionCookie is the name of the HttpOnly cookie holding the signed
// session token.
const SessionCookie = "hotel_session"

// Context keys set by LoadSession.
const (
	CtxUsername = "username"
	CtxRole     = "ruolo"
)

// LoadSession returns a middleware that reads the session cookie and, when
// its token verifies against secret, stores the username and role in the
// context.  Requests without a valid cookie continue as anonymous; routes
// that need a user add RequireSession.
func LoadSession(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(SessionCookie)
			if err != nil || ck.Value == "" {
				return next(c)
			}
			s, err := utils.ParseSessionToken(secret, ck.Value)
			if err != nil {
				// Forged or expired: drop it so the browser stops sending it.
				ClearSessionCookie(c)
				return next(c)
			}
			c.Set(CtxUsername, s.Username)
			c.Set(CtxRole, s.Role)
			return next(c)
		}
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if u, _ := CurrentUser(c); u == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "login required"})
			}
			return next(c)
		}
	}
}

// SetSessionCookie writes tok as the session cookie.
func SetSessionCookie(c echo.Context, tok utils.SessionToken, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		MaxAge:   int(time.Until(tok.Exp).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
