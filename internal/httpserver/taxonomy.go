package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/service"
)

// TaxonomyHTTP serves one taxonomy kind; the router mounts one instance
// per kind.
type TaxonomyHTTP struct {
	Svc *service.TaxonomyService
}

type titleRequest struct {
	Title string `json:"title"`
}

func (h *TaxonomyHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "taxonomy.create", "kind", h.Svc.Kind)

	var req titleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "taxonomy_create", "invalid body", err)
	}
	t, err := h.Svc.Create(ctx, req.Title)
	if err != nil {
		return fail(l, "taxonomy_create", err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TaxonomyHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "taxonomy.update", "kind", h.Svc.Kind)

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req titleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "taxonomy_update", "invalid body", err)
	}
	t, err := h.Svc.Update(ctx, id, req.Title)
	if err != nil {
		return fail(l, "taxonomy_update", err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TaxonomyHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "taxonomy.get", "kind", h.Svc.Kind)

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "taxonomy_get", err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TaxonomyHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "taxonomy.list", "kind", h.Svc.Kind)

	items, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "taxonomy_list", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *TaxonomyHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "taxonomy.delete", "kind", h.Svc.Kind)

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "taxonomy_delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}
