package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aristomax/shopbuddy/internal/config"
	"github.com/aristomax/shopbuddy/internal/domain"
	"github.com/aristomax/shopbuddy/internal/middleware"
	"github.com/aristomax/shopbuddy/internal/service"
)

// HandleUpload processes a file turn. Only image media types pass the input
// boundary; anything else is rejected here with a direct notice, before any
// controller logic runs.
func (h *Handler) HandleUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fileHeader.Size > config.MaxUploadSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read file")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return echo.NewHTTPError(http.StatusBadRequest, config.NonImageRejectionText).SetInternal(domain.ErrNotImage)
	}

	token := middleware.GetSession(c)
	snapshot, err := h.conversation.FileTurn(c.Request().Context(), token, service.Upload{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
		Caption:     c.FormValue("caption"),
		PreviewURL:  c.FormValue("preview_url"),
	})
	if err != nil {
		slog.Error("file turn failed", "error", err, "session", token)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process file")
	}

	return c.JSON(http.StatusOK, snapshotResponse{SessionID: token, Messages: snapshot})
}
