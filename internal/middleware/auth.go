package middleware

import (
	"net/http"
	"strings"

	"github.com/faroemiliano/backBarberia1991/internal/auth"
	"github.com/labstack/echo/v4"
)

const (
	ctxUserID  = "auth.user_id"
	ctxIsAdmin = "auth.is_admin"
)

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// RequireAuth accepts "Authorization: Bearer <jwt>" and stores the caller
// on the context.
func RequireAuth(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			claims, err := parser.Parse(strings.TrimSpace(token))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			id, err := claims.UserID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(ctxUserID, id)
			c.Set(ctxIsAdmin, claims.IsAdmin)
			return next(c)
		}
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IsAdmin(c) {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ctxUserID).(uint)
	return id, ok && id != 0
}

func IsAdmin(c echo.Context) bool {
	admin, _ := c.Get(ctxIsAdmin).(bool)
	return admin
}

// SetCaller is used by tests that bypass RequireAuth.
func SetCaller(c echo.Context, userID uint, isAdmin bool) {
	c.Set(ctxUserID, userID)
	c.Set(ctxIsAdmin, isAdmin)
}
