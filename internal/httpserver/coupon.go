package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/service"
)

type CouponHTTP struct {
	Svc *service.CouponService
}

func (h *CouponHTTP) CreateCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.create")

	var req service.CouponInput
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "coupon_create", "invalid body", err)
	}
	cp, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "coupon_create", err)
	}
	l.Info("create_coupon_success", "coupon", cp.Name)
	return c.JSON(http.StatusCreated, cp)
}

func (h *CouponHTTP) GetCoupons(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "get_coupons", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CouponHTTP) GetCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.get")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	cp, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_coupon", err)
	}
	return c.JSON(http.StatusOK, cp)
}

func (h *CouponHTTP) UpdateCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.update")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.CouponInput
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "coupon_update", "invalid body", err)
	}
	cp, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "coupon_update", err)
	}
	return c.JSON(http.StatusOK, cp)
}

func (h *CouponHTTP) DeleteCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.delete")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "coupon_delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}
