package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/aristomax/shopbuddy/internal/config"
	"github.com/aristomax/shopbuddy/internal/middleware"
	"github.com/aristomax/shopbuddy/internal/service"
)

// Handler holds all dependencies needed by the widget API endpoints.
type Handler struct {
	cfg          *config.Config
	identity     *service.IdentityService
	history      *service.HistoryService
	conversation *service.ConversationService
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Cfg          *config.Config
	Identity     *service.IdentityService
	History      *service.HistoryService
	Conversation *service.ConversationService
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		cfg:          deps.Cfg,
		identity:     deps.Identity,
		history:      deps.History,
		conversation: deps.Conversation,
	}
}

// Register mounts the widget API.
func (h *Handler) Register(e *echo.Echo) {
	g := e.Group("/widget",
		middleware.RateLimit(config.RateLimitPerMinute),
		middleware.SessionLoader(h.identity),
	)
	g.POST("/chat", h.HandleChat)
	g.POST("/upload", h.HandleUpload)
	g.GET("/history", h.HandleHistory)
	g.GET("/view", h.HandleView)
}
