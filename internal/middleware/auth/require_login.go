package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/service"
	"github.com/Skotchmaster/shop_backend/internal/tokens"
)

func (a *Authenticator) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx)

		raw := bearerToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "there is no token attached to header")
		}

		id, err := a.Tokens.Verify(raw, tokens.KindAccess)
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "invalid token")
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, token expired, please login again")
		}

		user, err := a.Users.GetUser(ctx, id)
		if err != nil {
			l.Warn("auth_failed", "status", 401, "reason", "user not found", "user_id", id, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, please login again")
		}

		c.Set(CtxUser, user)
		c.Set(CtxActor, service.Actor{UserID: user.ID, IsAdmin: user.IsAdmin})
		c.SetRequest(c.Request().WithContext(
			logging.IntoContext(ctx, l.With("user_id", user.ID)),
		))
		return next(c)
	}
}
