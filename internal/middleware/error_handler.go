package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "mesto/internal/errors"
)

// ErrorHandler is the terminal stage of the pipeline: it logs err and writes
// the translated status and {message} body. It never panics.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		req := c.Request()
		fields := []zap.Field{
			zap.String("id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("kind", string(apperrors.KindOf(err))),
			zap.Error(err),
		}

		status, body := apperrors.MapErrorToHTTP(err)
		fields = append(fields, zap.Int("status", status))
		if status >= http.StatusInternalServerError {
			log.Error("request failed", fields...)
		} else {
			log.Info("request rejected", fields...)
		}

		var werr error
		if req.Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			log.Error("write error response", zap.Error(werr))
		}
	}
}
