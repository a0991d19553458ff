package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aristomax/shopbuddy/internal/middleware"
	"github.com/aristomax/shopbuddy/internal/render"
)

// HandleHistory returns the raw history snapshot for the calling session.
func (h *Handler) HandleHistory(c echo.Context) error {
	token := middleware.GetSession(c)
	snapshot, err := h.history.Current(c.Request().Context(), token)
	if err != nil {
		slog.Error("load history failed", "error", err, "session", token)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load history")
	}
	return c.JSON(http.StatusOK, snapshotResponse{SessionID: token, Messages: snapshot})
}

type viewResponse struct {
	SessionID string               `json:"session_id"`
	Greeting  string               `json:"greeting"`
	Messages  []render.MessageView `json:"messages"`
}

// HandleView returns the history projected into display structures.
func (h *Handler) HandleView(c echo.Context) error {
	token := middleware.GetSession(c)
	snapshot, err := h.history.Current(c.Request().Context(), token)
	if err != nil {
		slog.Error("load history failed", "error", err, "session", token)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load history")
	}

	views := make([]render.MessageView, len(snapshot))
	for i, m := range snapshot {
		views[i] = render.Render(m)
	}
	return c.JSON(http.StatusOK, viewResponse{
		SessionID: token,
		Greeting:  h.conversation.Greeting(),
		Messages:  views,
	})
}
