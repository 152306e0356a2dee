package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/service"
	"github.com/Skotchmaster/shop_backend/internal/tokens"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieMaxAge time.Duration
	CookieSecure bool
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "register", "invalid body", err)
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register", err)
	}

	l.Info("register_success", "user_id", res.User.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"token": res.Token,
		"user":  res.User,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	return h.login(c, false)
}

func (h *AuthHTTP) AdminLogin(c echo.Context) error {
	return h.login(c, true)
}

func (h *AuthHTTP) login(c echo.Context, admin bool) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login", "admin", admin)

	var req credentials
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login", "invalid body", err)
	}

	var (
		res *service.LoginResult
		err error
	)
	if admin {
		res, err = h.Svc.AdminLogin(ctx, req.Email, req.Password)
	} else {
		res, err = h.Svc.Login(ctx, req.Email, req.Password)
	}
	if err != nil {
		return fail(l, "login", err)
	}

	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookieName, res.RefreshToken, "/", h.cookieMaxAge(), h.CookieSecure))

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"token": res.AccessToken,
		"user":  res.User,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	access, err := h.Svc.Refresh(ctx, refreshCookie(c))
	if err != nil {
		return fail(l, "refresh", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": access})
}

// Logout always clears the cookie, whether or not the token was known.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookieName, "/", h.CookieSecure))
	if err := h.Svc.Logout(ctx, refreshCookie(c)); err != nil {
		return fail(l, "logout", err)
	}

	l.Info("logout_success")
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) VerifyAccount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.verify")

	user, err := h.Svc.Verify(ctx, c.Param("token"))
	if err != nil {
		return fail(l, "verify", err)
	}
	l.Info("verify_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.forgot_password")

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "forgot_password", "invalid body", err)
	}
	if err := h.Svc.ForgotPassword(ctx, req.Email); err != nil {
		return fail(l, "forgot_password", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reset link sent"})
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.reset_password")

	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "reset_password", "invalid body", err)
	}
	if err := h.Svc.ResetPassword(ctx, c.Param("token"), req.Password); err != nil {
		return fail(l, "reset_password", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.change_password")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req struct {
		CurrentPassword string `json:"current_password"`
		Password        string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "change_password", "invalid body", err)
	}
	if err := h.Svc.ChangePassword(ctx, actor, req.CurrentPassword, req.Password); err != nil {
		return fail(l, "change_password", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

func (h *AuthHTTP) cookieMaxAge() time.Duration {
	if h.CookieMaxAge <= 0 {
		return 72 * time.Hour
	}
	return h.CookieMaxAge
}

func refreshCookie(c echo.Context) string {
	ck, err := c.Cookie(tokens.RefreshCookieName)
	if err != nil {
		return ""
	}
	return ck.Value
}
