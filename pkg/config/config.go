package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ServerConfig holds the process-level settings. Flags may override
// individual fields after parsing.
type ServerConfig struct {
	APIPort      int    `env:"API_PORT" envDefault:"8080"`
	WSPort       int    `env:"WS_PORT" envDefault:"8081"`
	DatabaseURL  string `env:"DATABASE_URL"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"courtside.db"`
	RedisURL     string `env:"REDIS_URL"`
	RedisChannel string `env:"REDIS_CHANNEL" envDefault:"courtside.events"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %v", err)
	}
	return cfg, nil
}
