package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	shopbuddy "github.com/aristomax/shopbuddy"
	"github.com/aristomax/shopbuddy/internal/config"
	"github.com/aristomax/shopbuddy/internal/handler"
	"github.com/aristomax/shopbuddy/internal/middleware"
	"github.com/aristomax/shopbuddy/internal/repository"
	"github.com/aristomax/shopbuddy/internal/service"
	"github.com/aristomax/shopbuddy/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load .env for local development, then configuration
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Pick the state store: Postgres when configured, memory otherwise
	var store repository.Store
	if cfg.DatabaseURL != "" {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}

		migrationsFS, err := fs.Sub(shopbuddy.MigrationsFS, "migrations")
		if err != nil {
			slog.Error("failed to load embedded migrations", "error", err)
			os.Exit(1)
		}
		if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		store = repository.NewPostgresStore(pool, config.SessionTTL)
		slog.Info("using postgres store")
	} else {
		store = repository.NewMemoryStore(config.SessionTTL)
		slog.Info("using in-memory store")
	}
	defer store.Close()

	// Initialize services
	identityService := service.NewIdentityService(store)
	historyService := service.NewHistoryService(store, cfg.HistoryLimit)
	backendClient := service.NewBackendClient(cfg.BackendURL)

	var enricher *service.EnrichService
	if cfg.PriceBackfill {
		enricher = service.NewEnrichService()
	}
	conversationService := service.NewConversationService(backendClient, historyService, enricher)

	// Initialize widget API
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover(), middleware.Logging())

	h := handler.New(handler.Deps{
		Cfg:          cfg,
		Identity:     identityService,
		History:      historyService,
		Conversation: conversationService,
	})
	h.Register(e)

	// Optional Telegram surface
	if cfg.BotToken != "" {
		bridge, err := telegram.NewBridge(cfg.BotToken, cfg.DropPendingUpdates, identityService, historyService, conversationService)
		if err != nil {
			slog.Error("failed to create telegram bridge", "error", err)
			os.Exit(1)
		}
		go bridge.Start(ctx)
		slog.Info("telegram surface enabled")
	}

	// Start expired state cleanup goroutine
	go func() {
		ticker := time.NewTicker(config.SessionCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := store.PurgeExpired(context.Background()); err != nil {
					slog.Error("purge expired state", "error", err)
				}
			}
		}
	}()

	// Start server
	go func() {
		slog.Info("starting widget gateway", "addr", cfg.Addr(), "backend", cfg.BackendURL)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	slog.Info("widget gateway stopped gracefully")
}
