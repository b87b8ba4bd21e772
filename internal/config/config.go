package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/memory.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	// RedisURL switches preference storage from SQLite to Redis when set.
	RedisURL string `env:"REDIS_URL"`

	IconBaseURL  string        `env:"ICON_BASE_URL" envDefault:"/icons"`
	ResolveDelay time.Duration `env:"RESOLVE_DELAY" envDefault:"700ms"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	// AdminPasswordHash is a bcrypt hash. Admin routes are disabled when empty.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.ResolveDelay <= 0 {
		return nil, fmt.Errorf("RESOLVE_DELAY must be positive, got %s", cfg.ResolveDelay)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	return &cfg, nil
}
