package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/service"
)

type CartHTTP struct {
	Carts  *service.CartService
	Orders *service.OrderService
}

func (h *CartHTTP) SetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.set")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req struct {
		Cart []service.CartLineInput `json:"cart"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "set_cart", "invalid body", err)
	}

	cart, err := h.Carts.SetCart(ctx, actor, req.Cart)
	if err != nil {
		return fail(l, "set_cart", err)
	}
	l.Info("set_cart_success")
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	cart, err := h.Carts.GetCart(ctx, actor)
	if err != nil {
		return fail(l, "get_cart", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) EmptyCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.empty")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.Carts.EmptyCart(ctx, actor); err != nil {
		return fail(l, "empty_cart", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) ApplyCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.apply_coupon")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req struct {
		Coupon string `json:"coupon"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "apply_coupon", "invalid body", err)
	}

	total, err := h.Carts.ApplyCoupon(ctx, actor, req.Coupon)
	if err != nil {
		return fail(l, "apply_coupon", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total_after_discount": total})
}

func (h *CartHTTP) CashOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cash_order")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req struct {
		COD bool `json:"cod"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_order", "invalid body", err)
	}

	order, err := h.Orders.CreateOrder(ctx, actor, req.COD)
	if err != nil {
		return fail(l, "create_order", err)
	}
	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *CartHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	orders, err := h.Orders.GetOrders(ctx, actor)
	if err != nil {
		return fail(l, "get_orders", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *CartHTTP) GetAllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_all_orders")

	orders, err := h.Orders.GetAllOrders(ctx)
	if err != nil {
		return fail(l, "get_all_orders", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *CartHTTP) GetOrdersByUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders_by_user")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	orders, err := h.Orders.GetOrdersByUser(ctx, id)
	if err != nil {
		return fail(l, "get_orders_by_user", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *CartHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_order_status", "invalid body", err)
	}

	order, err := h.Orders.UpdateOrderStatus(ctx, id, req.Status)
	if err != nil {
		return fail(l, "update_order_status", err)
	}
	l.Info("update_order_status_success", "order_id", id, "order_status", req.Status)
	return c.JSON(http.StatusOK, order)
}
