package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // for errors.Is comparisons
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"trip-booking-server/internal/config"     // app configuration
	"trip-booking-server/internal/middleware" // session cookie name
	"trip-booking-server/internal/repository" // DB repositories
	"trip-booking-server/internal/session"    // server-side session store
	"trip-booking-server/internal/utils"      // helper functions (hashing, signed cookies)
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions session.Store
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, s session.Store) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s}
}

// ----- DTOs -----

type signinReq struct {
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// openSession creates the server-side session, signs its id into the
// cookie token and attaches the cookie to the response.
func (h *AuthHandler) openSession(ctx context.Context, c echo.Context, data session.Data) error {
	sid, err := h.Sessions.Create(ctx, data)
	if err != nil {
		return err
	}
	token, err := utils.NewSessionToken(h.Cfg.SessionSecret, sid, h.Cfg.SessionTTLMin)
	if err != nil {
		// Keep the store consistent when the cookie cannot be issued.
		_ = h.Sessions.Destroy(ctx, sid)
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.Cfg.SessionTTLMin * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// SignIn: create user and open a session immediately.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/last_name/email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.LastName, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	if err := h.openSession(ctx, c, session.Data{
		UserID:   uid,
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open session failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": uid})
}

// Login: verify credentials and open a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Unknown email reads the same as a wrong password.
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		// No session is created on a password mismatch.
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := h.openSession(ctx, c, session.Data{
		UserID:   u.ID,
		Name:     u.Name,
		LastName: u.LastName,
		Email:    u.Email,
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open session failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"id": u.ID})
}

// Logout destroys the current session and clears the cookie. It is
// idempotent: a missing or already invalid cookie still yields 204 so
// that repeated logouts are harmless.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if cookie, err := c.Cookie(middleware.CookieName); err == nil && cookie.Value != "" {
		if sid, err := utils.ParseSessionToken(h.Cfg.SessionSecret, cookie.Value); err == nil {
			_ = h.Sessions.Destroy(ctx, sid)
		}
	}
	// Expire the cookie on the client regardless of store state.
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

// Me: simple protected endpoint returning the session identity.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":   c.Get("user_id"),
		"name":      c.Get("user_name"),
		"last_name": c.Get("user_last_name"),
		"email":     c.Get("user_email"),
	})
}
