package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/service"
	"github.com/Skotchmaster/shop_backend/internal/util"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "product_create", "invalid body", err)
	}

	p, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "product_create", err)
	}
	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_product", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.ProductPatch
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "product_update", "invalid body", err)
	}

	p, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "product_update", err)
	}
	l.Info("update_product_success", "product_id", id)
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "product_delete", err)
	}
	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

// GetProducts accepts category, brand, color, price[gte|gt|lte|lt], sort,
// fields, page and limit query parameters.
func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page, offset, limit := pageParams(c, "limit")
	params := service.ProductListParams{
		Category: c.QueryParam("category"),
		Brand:    c.QueryParam("brand"),
		Color:    c.QueryParam("color"),
		PriceGTE: util.ParseFloat(c.QueryParam("price[gte]")),
		PriceGT:  util.ParseFloat(c.QueryParam("price[gt]")),
		PriceLTE: util.ParseFloat(c.QueryParam("price[lte]")),
		PriceLT:  util.ParseFloat(c.QueryParam("price[lt]")),
		Sort:     c.QueryParam("sort"),
		Fields:   c.QueryParam("fields"),
		Offset:   offset,
		Limit:    limit,
	}

	total, items, err := h.Svc.List(ctx, params)
	if err != nil {
		return fail(l, "get_products", err)
	}
	return c.JSON(http.StatusOK, listResponse(items, page, limit, total))
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page, offset, limit := pageParams(c, "size")
	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_products", err)
	}
	return c.JSON(http.StatusOK, listResponse(items, page, limit, total))
}

func (h *ProductHTTP) UploadImages(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.upload_images")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	files, err := imageFiles(c)
	if err != nil {
		return badRequest(l, "upload_images", "expected multipart form with images", err)
	}

	p, err := h.Svc.UploadImages(ctx, id, files)
	if err != nil {
		return fail(l, "upload_images", err)
	}
	l.Info("upload_images_success", "product_id", id, "count", len(files))
	return c.JSON(http.StatusOK, p)
}
