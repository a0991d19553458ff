package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
)

// Recover returns middleware that recovers from handler panics.
func Recover() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic recovered in handler",
						"panic", r,
						"path", c.Request().URL.Path,
						"stack", string(debug.Stack()),
					)
					err = echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("%v", r))
				}
			}()
			return next(c)
		}
	}
}
