package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskmanager/web/internal/domain/entities"
	"github.com/taskmanager/web/internal/infrastructure/config"
	"github.com/taskmanager/web/internal/infrastructure/logger"
	"github.com/taskmanager/web/internal/ports"
)

// AuthHandler handles registration, login, and logout pages.
type AuthHandler struct {
	auth   ports.AuthService
	cfg    config.SessionConfig
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth ports.AuthService, cfg config.SessionConfig, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		cfg:    cfg,
		logger: logger,
	}
}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(c echo.Context) error {
	return h.renderRegister(c, "", "")
}

// Register handles registration form submission. On success the user is sent
// to the login page.
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return h.renderRegister(c, req.Username, "Please check the form and try again.")
	}

	if req.Password != req.Confirm {
		return h.renderRegister(c, req.Username, "Passwords do not match.")
	}

	if err := c.Validate(&req); err != nil {
		return h.renderRegister(c, req.Username, "Username must be 3-50 characters and the password at least 8.")
	}

	if _, err := h.auth.Register(c.Request().Context(), req); err != nil {
		if errors.Is(err, entities.ErrUsernameTaken) {
			return h.renderRegister(c, req.Username, "Username already taken.")
		}
		h.logger.Errorw("Registration failed", "error", err, "username", req.Username)
		return h.renderRegister(c, req.Username, "Registration failed. Please try again.")
	}

	setFlash(c, "Account created. Please log in.")
	return c.Redirect(http.StatusSeeOther, "/login")
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	return h.renderLogin(c, "", "")
}

// Login handles login form submission. Failures re-render the form with a
// generic message so accounts cannot be enumerated.
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return h.renderLogin(c, req.Username, "Invalid username or password.")
	}

	if err := c.Validate(&req); err != nil {
		return h.renderLogin(c, req.Username, "Invalid username or password.")
	}

	_, token, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		return h.renderLogin(c, req.Username, "Invalid username or password.")
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.cfg.TTL / time.Second),
	})

	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout destroys the current session and returns to the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.cfg.CookieName); err == nil && cookie.Value != "" {
		if err := h.auth.Logout(c.Request().Context(), cookie.Value); err != nil {
			h.logger.Warnw("Logout failed", "error", err)
		}
	}

	clearSessionCookie(c, h.cfg.CookieName)
	setFlash(c, "Logged out.")
	return c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) renderLogin(c echo.Context, username, errMsg string) error {
	return c.Render(http.StatusOK, "login.html", echo.Map{
		"Title":    "Login",
		"User":     CurrentUser(c),
		"Username": username,
		"Error":    errMsg,
		"Flash":    popFlash(c),
	})
}

func (h *AuthHandler) renderRegister(c echo.Context, username, errMsg string) error {
	return c.Render(http.StatusOK, "register.html", echo.Map{
		"Title":    "Register",
		"User":     CurrentUser(c),
		"Username": username,
		"Error":    errMsg,
		"Flash":    popFlash(c),
	})
}
