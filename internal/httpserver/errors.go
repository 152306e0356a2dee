package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/service"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrUnsupportedPayment):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrBlocked),
		errors.Is(err, service.ErrUnverified):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicate), errors.Is(err, service.ErrInUse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail logs a failed service call and turns it into an HTTP error.
func fail(l *slog.Logger, op string, err error) error {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		l.Error(op+"_error", "status", status, "error", err)
		return echo.NewHTTPError(status, "internal error").SetInternal(err)
	}
	l.Warn(op+"_error", "status", status, "error", err)
	return echo.NewHTTPError(status, err.Error()).SetInternal(err)
}

func badRequest(l *slog.Logger, op, reason string, err error) error {
	l.Warn(op+"_error", "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

// ErrorHandler renders every error as {"message": ...}. With exposeDetail
// set, the underlying error chain is added as "detail".
func ErrorHandler(exposeDetail bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := statusFor(err)
		var msg any = http.StatusText(status)
		internal := err

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			msg = he.Message
			internal = he.Internal
		} else if status < http.StatusInternalServerError {
			msg = err.Error()
		}

		body := echo.Map{"message": msg}
		if exposeDetail && internal != nil {
			body["detail"] = internal.Error()
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", werr)
		}
	}
}
