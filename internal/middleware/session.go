package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"trip-booking-server/internal/session" // server-side session store
	"trip-booking-server/internal/utils"   // signed cookie parsing
)

// CookieName is the name of the session cookie issued at login/signup.
const CookieName = "trip_session"

// SessionAuth returns an Echo middleware that validates the signed
// session cookie and injects the session's user identity into the
// request context. The provided secret must match the one used when
// the cookie was issued. This middleware should wrap protected routes
// so that handlers can access authenticated user information via
// `c.Get("user_id")` and friends.
//
// Sessions slide: every authenticated request renews the server-side
// TTL and re-issues the cookie with a fresh token, so only ttlMin
// minutes of inactivity end a session.
//
// A request fails with 401 Unauthorized when the cookie is missing,
// the signature does not verify, or the wrapped session id no longer
// resolves in the store (logged out or expired).
func SessionAuth(secret string, ttlMin int, store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// The session cookie carries an HS256 token wrapping the
			// server-side session id. No cookie means no session.
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			// Verify the signature and extract the session id. A forged
			// or expired cookie is rejected here before touching the store.
			sid, err := utils.ParseSessionToken(secret, cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
			}
			// Resolve the id against the store. Logout destroys the
			// server-side state, so a stale cookie alone is not enough.
			data, err := store.Get(c.Request().Context(), sid)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
			}
			// Renew the server-side expiry and re-issue the cookie so the
			// TTL slides with activity. A failed renewal never fails the
			// request itself; the session simply keeps its old deadline.
			if err := store.Touch(c.Request().Context(), sid); err == nil {
				if token, err := utils.NewSessionToken(secret, sid, ttlMin); err == nil {
					c.SetCookie(&http.Cookie{
						Name:     CookieName,
						Value:    token,
						Path:     "/",
						MaxAge:   ttlMin * 60,
						HttpOnly: true,
						SameSite: http.SameSiteLaxMode,
					})
				}
			}
			// Expose the session identity to handlers downstream.
			c.Set("session_id", sid)
			c.Set("user_id", data.UserID)
			c.Set("user_name", data.Name)
			c.Set("user_last_name", data.LastName)
			c.Set("user_email", data.Email)
			return next(c)
		}
	}
}
