package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aristomax/shopbuddy/internal/domain"
	"github.com/aristomax/shopbuddy/internal/middleware"
)

type chatRequest struct {
	Message string `json:"message"`
	// Override drives the prompt verbatim, bypassing pending context.
	Override string `json:"override"`
}

type snapshotResponse struct {
	SessionID string           `json:"session_id"`
	Messages  []domain.Message `json:"messages"`
}

// HandleChat processes a text turn.
func (h *Handler) HandleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token := middleware.GetSession(c)
	snapshot, err := h.conversation.TextTurn(c.Request().Context(), token, req.Message, req.Override)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			return echo.NewHTTPError(http.StatusBadRequest, "message cannot be empty")
		}
		slog.Error("text turn failed", "error", err, "session", token)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process message")
	}

	return c.JSON(http.StatusOK, snapshotResponse{SessionID: token, Messages: snapshot})
}
