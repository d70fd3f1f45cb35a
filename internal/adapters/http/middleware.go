package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmanager/web/internal/domain/entities"
	"github.com/taskmanager/web/internal/ports"
)

const userContextKey = "current_user"

// RequireUser resolves the session cookie into a user and stores it in the
// request context. Requests without a valid session are redirected to the
// login page instead of seeing any task data.
func RequireUser(auth ports.AuthService, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return c.Redirect(http.StatusFound, "/login")
			}

			user, err := auth.ResolveSession(c.Request().Context(), cookie.Value)
			if err != nil {
				clearSessionCookie(c, cookieName)
				return c.Redirect(http.StatusFound, "/login")
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user set by RequireUser, or nil.
func CurrentUser(c echo.Context) *entities.User {
	user, ok := c.Get(userContextKey).(*entities.User)
	if !ok {
		return nil
	}
	return user
}

func clearSessionCookie(c echo.Context, cookieName string) {
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
