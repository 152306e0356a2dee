package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/service"
)

type BlogHTTP struct {
	Svc *service.BlogService
}

func (h *BlogHTTP) CreateBlog(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blog.create")

	var req service.BlogInput
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "blog_create", "invalid body", err)
	}
	b, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "blog_create", err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BlogHTTP) UpdateBlog(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blog.update")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.BlogInput
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "blog_update", "invalid body", err)
	}
	b, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "blog_update", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BlogHTTP) GetBlog(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blog.get")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_blog", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BlogHTTP) GetBlogs(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blog.list")

	page, offset, limit := pageParams(c, "size")
	total, items, err := h.Svc.List(ctx, offset, limit)
	if err != nil {
		return fail(l, "get_blogs", err)
	}
	return c.JSON(http.StatusOK, listResponse(items, page, limit, total))
}

func (h *BlogHTTP) DeleteBlog(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blog.delete")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "blog_delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BlogHTTP) LikeBlog(c echo.Context) error {
	return h.react(c, true)
}

func (h *BlogHTTP) DislikeBlog(c echo.Context) error {
	return h.react(c, false)
}

func (h *BlogHTTP) react(c echo.Context, like bool) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blog.react", "like", like)

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req struct {
		BlogID uuid.UUID `json:"blog_id"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "blog_react", "invalid body", err)
	}

	react := h.Svc.Dislike
	if like {
		react = h.Svc.Like
	}
	b, err := react(ctx, actor, req.BlogID)
	if err != nil {
		return fail(l, "blog_react", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BlogHTTP) UploadImages(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blog.upload_images")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	files, err := imageFiles(c)
	if err != nil {
		return badRequest(l, "upload_images", "expected multipart form with images", err)
	}
	b, err := h.Svc.UploadImages(ctx, id, files)
	if err != nil {
		return fail(l, "upload_images", err)
	}
	return c.JSON(http.StatusOK, b)
}
