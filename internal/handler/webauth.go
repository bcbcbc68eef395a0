package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aferreira/habitloop/internal/auth"
	"github.com/aferreira/habitloop/internal/config"
	"github.com/aferreira/habitloop/internal/middleware"
	"github.com/aferreira/habitloop/internal/repository"
)

// WebAuthHandler serves the browser-facing login, registration and
// logout flows. Unlike the API handlers it speaks redirects and
// rendered forms, and it is the only place that creates or destroys
// sessions.
type WebAuthHandler struct {
	Cfg      config.Config
	Users    UserAccounts
	Sessions auth.SessionStore
}

func NewWebAuthHandler(cfg config.Config, users UserAccounts, sessions auth.SessionStore) *WebAuthHandler {
	return &WebAuthHandler{Cfg: cfg, Users: users, Sessions: sessions}
}

// LoginForm handles GET /login.
func (h *WebAuthHandler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login", echo.Map{"Error": c.QueryParam("error")})
}

// Login handles POST /login. On success it creates a server-side
// session and sets the HttpOnly cookie; the cookie value is the opaque
// session ID and carries no identity by itself. On bad credentials it
// redirects back with a generic flag that does not reveal whether the
// username existed.
func (h *WebAuthHandler) Login(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.Redirect(http.StatusFound, "/login?error=missing")
	}

	u, err := h.Users.GetByUsername(c.Request().Context(), username)
	switch {
	case err == repository.ErrUserNotFound:
		return c.Redirect(http.StatusFound, "/login?error=credentials")
	case err != nil:
		// A lookup failure is a server fault, not a credential one.
		return c.Redirect(http.StatusFound, "/error?code=server")
	case !auth.VerifyPassword(u.PasswordHash, password):
		return c.Redirect(http.StatusFound, "/login?error=credentials")
	}

	// Session state is written only here, on proven credentials; an
	// aborted or failed attempt leaves nothing behind.
	id, err := h.Sessions.Create(c.Request().Context(), u.Username)
	if err != nil {
		return c.Redirect(http.StatusFound, "/error?code=server")
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, "/habits")
}

// RegisterForm handles GET /register.
func (h *WebAuthHandler) RegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register", echo.Map{"Error": c.QueryParam("error")})
}

// Register handles POST /register. Field-specific duplicate errors come
// back on the form; a fresh account is sent to the login page.
func (h *WebAuthHandler) Register(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")
	if username == "" || email == "" || password == "" {
		return c.Redirect(http.StatusFound, "/register?error=missing")
	}

	_, err := h.Users.Create(c.Request().Context(), username, email, password, h.Cfg.BcryptCost)
	switch err {
	case nil:
		return c.Redirect(http.StatusFound, "/login")
	case repository.ErrUsernameExists:
		return c.Redirect(http.StatusFound, "/register?error=username")
	case repository.ErrEmailExists:
		return c.Redirect(http.StatusFound, "/register?error=email")
	case auth.ErrInvalidInput:
		return c.Redirect(http.StatusFound, "/register?error=missing")
	default:
		return c.Redirect(http.StatusFound, "/error?code=server")
	}
}

// Logout handles POST /logout: destroy the server-side session and
// explicitly delete the cookie.
func (h *WebAuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		_ = h.Sessions.Destroy(c.Request().Context(), cookie.Value)
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return c.Redirect(http.StatusFound, "/login")
}
