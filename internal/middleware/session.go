package middleware

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aristomax/shopbuddy/internal/service"
)

const (
	sessionContextKey = "widget_session"

	// ClientHeader carries the widget's opaque per-tab key.
	ClientHeader = "X-Widget-Client"
	// ClientCookie is the fallback for pages that cannot set headers.
	ClientCookie = "widget_client"
)

// GetSession extracts the session token resolved by SessionLoader.
func GetSession(c echo.Context) string {
	token, _ := c.Get(sessionContextKey).(string)
	return token
}

// SessionLoader returns middleware that resolves the stable session token
// for the calling browser tab and stores it in the request context. A tab
// without a client key gets one assigned via cookie.
func SessionLoader(identity *service.IdentityService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientKey := c.Request().Header.Get(ClientHeader)
			if clientKey == "" {
				if cookie, err := c.Cookie(ClientCookie); err == nil {
					clientKey = cookie.Value
				}
			}
			if clientKey == "" {
				clientKey = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     ClientCookie,
					Value:    clientKey,
					Path:     "/",
					HttpOnly: true,
				})
			}

			token, err := identity.GetOrCreate(c.Request().Context(), clientKey)
			if err != nil {
				slog.Error("resolve session", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
			}

			c.Set(sessionContextKey, token)
			return next(c)
		}
	}
}
