package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/service"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	user, err := h.Svc.GetUser(ctx, actor)
	if err != nil {
		return fail(l, "get_user", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req service.UpdateUserInput
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_user", "invalid body", err)
	}

	user, err := h.Svc.UpdateUser(ctx, actor, req)
	if err != nil {
		return fail(l, "update_user", err)
	}
	l.Info("update_user_success")
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) SaveAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.save_address")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req struct {
		Address string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "save_address", "invalid body", err)
	}

	user, err := h.Svc.SaveAddress(ctx, actor, req.Address)
	if err != nil {
		return fail(l, "save_address", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteUser(ctx, actor); err != nil {
		return fail(l, "delete_user", err)
	}
	l.Info("delete_user_success")
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list")

	page, offset, limit := pageParams(c, "size")
	total, users, err := h.Svc.ListUsers(ctx, offset, limit)
	if err != nil {
		return fail(l, "list_users", err)
	}
	return c.JSON(http.StatusOK, listResponse(users, page, limit, total))
}

func (h *UserHTTP) BlockUser(c echo.Context) error {
	return h.setBlocked(c, true)
}

func (h *UserHTTP) UnblockUser(c echo.Context) error {
	return h.setBlocked(c, false)
}

func (h *UserHTTP) setBlocked(c echo.Context, blocked bool) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.block", "blocked", blocked)

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var user *models.User
	if blocked {
		user, err = h.Svc.Block(ctx, id)
	} else {
		user, err = h.Svc.Unblock(ctx, id)
	}
	if err != nil {
		return fail(l, "block_user", err)
	}
	l.Info("block_user_success", "target_id", id)
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Wishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.wishlist")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	items, err := h.Svc.Wishlist(ctx, actor)
	if err != nil {
		return fail(l, "wishlist", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *UserHTTP) ToggleWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.toggle_wishlist")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req struct {
		ProductID uuid.UUID `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "toggle_wishlist", "invalid body", err)
	}

	added, err := h.Svc.ToggleWishlist(ctx, actor, req.ProductID)
	if err != nil {
		return fail(l, "toggle_wishlist", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"product_id": req.ProductID,
		"wishlisted": added,
	})
}
