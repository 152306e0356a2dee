package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/service"
	"github.com/Skotchmaster/shop_backend/internal/tokens"
)

const (
	CtxActor = "actor"
	CtxUser  = "user"
)

type UserLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authenticator resolves the bearer access token of a request to a stored
// user.
type Authenticator struct {
	Tokens *tokens.Manager
	Users  UserLookup
}

func NewAuthenticator(tm *tokens.Manager, users UserLookup) *Authenticator {
	return &Authenticator{Tokens: tm, Users: users}
}

// ActorFrom returns the caller set by RequireAuth.
func ActorFrom(c echo.Context) (service.Actor, bool) {
	a, ok := c.Get(CtxActor).(service.Actor)
	return a, ok && a.Valid()
}

func UserFrom(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(CtxUser).(*models.User)
	return u, ok && u != nil
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
