package httpserver

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/shop_backend/internal/middleware/auth"
	"github.com/Skotchmaster/shop_backend/internal/service"
	"github.com/Skotchmaster/shop_backend/internal/util"
)

func parseID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, name+" is not a uuid")
	}
	return id, nil
}

func actorFrom(c echo.Context) (service.Actor, error) {
	a, ok := authmw.ActorFrom(c)
	if !ok {
		return service.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	}
	return a, nil
}

func pageParams(c echo.Context, sizeParam string) (page, offset, limit int) {
	page = util.ParseIntDefault(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	size := util.ParseIntDefault(c.QueryParam(sizeParam), util.DefaultPageSize)
	offset, limit = util.Calculate(page, size)
	return page, offset, limit
}

func listResponse(items any, page, limit int, total int64) map[string]any {
	return map[string]any{
		"data": items,
		"meta": util.Meta(page, limit, total),
	}
}

func imageFiles(c echo.Context) ([]service.ImageFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	headers := form.File["images"]
	files := make([]service.ImageFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, service.ImageFile{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return files, nil
}
