package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BackendURL  string `env:"BACKEND_URL" envDefault:"http://localhost:8000"`
	DatabaseURL string `env:"DATABASE_URL"`

	// Telegram surface (optional, disabled when empty)
	BotToken           string `env:"BOT_TOKEN"`
	DropPendingUpdates bool   `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`

	// Server
	Port int `env:"PORT" envDefault:"3000"`

	// Conversation
	HistoryLimit int `env:"HISTORY_LIMIT" envDefault:"20"`

	// Price backfill via product-page meta tags
	PriceBackfill bool `env:"PRICE_BACKFILL" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address for the widget API.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
