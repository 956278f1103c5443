package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "tok")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.AppEnv != "production" {
		t.Errorf("AppEnv = %q, want 'production'", cfg.AppEnv)
	}
	if cfg.Development() {
		t.Error("Development() = true for production config")
	}
	if cfg.FrontendBaseURL == "" {
		t.Error("FrontendBaseURL default missing")
	}
}

func TestLoadCityChannels(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "tok")
	t.Setenv("CITY_CHANNELS", "beijing:111,shanghai:222,default:999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	res, err := cfg.CityChannels.Resolve("beijing")
	if err != nil {
		t.Fatalf("Resolve error = %v", err)
	}
	if res.ChannelID != "111" {
		t.Errorf("ChannelID = %q, want '111'", res.ChannelID)
	}
	if cfg.CityChannels.Default() != "999" {
		t.Errorf("Default() = %q, want '999'", cfg.CityChannels.Default())
	}
}

func TestLoadDefaultChannelFillsUnsetDefault(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "tok")
	t.Setenv("CITY_CHANNELS", "beijing:111")
	t.Setenv("DEFAULT_CHANNEL_ID", "777")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CityChannels.Default() != "777" {
		t.Errorf("Default() = %q, want '777'", cfg.CityChannels.Default())
	}
}

func TestLoadMalformedCityChannels(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "tok")
	t.Setenv("CITY_CHANNELS", "beijing111")

	if _, err := Load(); err == nil {
		t.Error("Load() accepted malformed CITY_CHANNELS")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: 3000}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted empty bot token")
	}

	cfg.BotToken = "tok"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	cfg.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted port 0")
	}
}

func TestLoadAllowedOrigins(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "tok")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.net,https://b.example.net")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example.net" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}
