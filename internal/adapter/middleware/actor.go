package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"prestamos-backend/internal/domain/errs"
	"prestamos-backend/internal/domain/user"
)

const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"

	actorKey = "actor"
)

// ActorMiddleware resolves the caller from X-User-Id. The role comes from
// the users table; X-User-Role, when sent, must agree with it.
func ActorMiddleware(users user.Repository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := strings.ToLower(strings.TrimSpace(c.Request().Header.Get(HeaderUserID)))
			if uid == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderUserID})
			}
			if !reHex32.MatchString(uid) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid " + HeaderUserID})
			}
			u, err := users.GetByUserID(c.Request().Context(), uid)
			if err != nil {
				if errors.Is(err, errs.ErrNotFound) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unknown user"})
				}
				return err
			}
			if role := strings.TrimSpace(c.Request().Header.Get(HeaderUserRole)); role != "" && user.Role(role) != u.Role {
				return c.JSON(http.StatusForbidden, map[string]string{"error": HeaderUserRole + " does not match the user"})
			}
			SetActor(c, user.Actor{ID: u.ID, Role: u.Role})
			return next(c)
		}
	}
}

// RequireAdmin must run after ActorMiddleware.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		a, ok := ActorFrom(c)
		if !ok || !a.IsAdmin() {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "admin only"})
		}
		return next(c)
	}
}

func SetActor(c echo.Context, a user.Actor) { c.Set(actorKey, a) }

func ActorFrom(c echo.Context) (user.Actor, bool) {
	a, ok := c.Get(actorKey).(user.Actor)
	return a, ok
}
