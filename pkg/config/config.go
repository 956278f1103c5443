// Playlist Bridge - pushes city playlists into Discord channels
// License: MIT
//
// Copyright (c) 2026 Playlist Bridge contributors

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/citytrip/playlistbridge/pkg/router"
)

// Config is the process configuration, resolved once at startup from the
// environment (optionally seeded from a .env file).
type Config struct {
	BotToken string `env:"DISCORD_BOT_TOKEN"`

	// CityChannels maps city keys to channel IDs, e.g.
	// "beijing:111,shanghai:222,default:999". Definition order matters for
	// fuzzy matching.
	CityChannels     router.ChannelMap `env:"CITY_CHANNELS"`
	DefaultChannelID string            `env:"DEFAULT_CHANNEL_ID"`

	FrontendBaseURL string   `env:"FRONTEND_BASE_URL" envDefault:"https://triplist.app"`
	Port            int      `env:"PORT" envDefault:"3000"`
	AllowedOrigins  []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	AppEnv          string   `env:"APP_ENV" envDefault:"production"`
	LogLevel        string   `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; a missing one is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.CityChannels.SetDefault(cfg.DefaultChannelID)
	return cfg, nil
}

// Validate checks the options the bridge cannot run without.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	return nil
}

// Development reports whether error details may be echoed to callers.
func (c *Config) Development() bool {
	return c.AppEnv == "development"
}
