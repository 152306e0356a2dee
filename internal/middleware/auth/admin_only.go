package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdmin must run after RequireAuth.
func (a *Authenticator) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
		}
		if !actor.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "you are not an admin")
		}
		return next(c)
	}
}
