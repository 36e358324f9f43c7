package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // timezone lookups in minimal images

	libconfig "solarmon/backend/libs/config"
)

// Config defines meter service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"SOLARMON_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"SOLARMON_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr       string `yaml:"addr" env:"SOLARMON_REDIS_ADDR"`
		Password   string `yaml:"password" env:"SOLARMON_REDIS_PASSWORD"`
		DB         int    `yaml:"db" env:"SOLARMON_REDIS_DB"`
		TTLSeconds int    `yaml:"ttlSeconds" env:"SOLARMON_CACHE_TTL_SECONDS"`
	} `yaml:"redis"`
	Telegram struct {
		BotToken       string `yaml:"botToken" env:"TELEGRAM_BOT_TOKEN"`
		ChatID         string `yaml:"chatId" env:"TELEGRAM_CHAT_ID"`
		SecretToken    string `yaml:"secretToken" env:"TELEGRAM_WEBHOOK_SECRET"`
		APIURL         string `yaml:"apiUrl" env:"TELEGRAM_API_URL"`
		TimeoutSeconds int    `yaml:"timeoutSeconds" env:"TELEGRAM_TIMEOUT_SECONDS"`
	} `yaml:"telegram"`
	Auth struct {
		JWTSecret       string `yaml:"jwtSecret" env:"SOLARMON_JWT_SECRET"`
		PasswordHash    string `yaml:"passwordHash" env:"SOLARMON_PASSWORD_HASH"`
		TokenTTLMinutes int    `yaml:"tokenTtlMinutes" env:"SOLARMON_TOKEN_TTL_MINUTES"`
	} `yaml:"auth"`
	WebSocket struct {
		WriteTimeoutSeconds int `yaml:"writeTimeoutSeconds" env:"SOLARMON_WS_WRITE_TIMEOUT"`
	} `yaml:"websocket"`
	App struct {
		Timezone string `yaml:"timezone" env:"SOLARMON_TIMEZONE"`
	} `yaml:"app"`

	location *time.Location
}

// Load uses shared config loader and validates fields.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads path instead of CONFIG_FILE when path is not empty.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.TTLSeconds = 300
	cfg.Telegram.TimeoutSeconds = 5
	cfg.Auth.TokenTTLMinutes = 60
	cfg.WebSocket.WriteTimeoutSeconds = 10
	cfg.App.Timezone = "UTC"

	var err error
	if path != "" {
		err = libconfig.LoadConfigFrom(path, cfg)
	} else {
		err = libconfig.LoadConfig(cfg)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	loc, err := time.LoadLocation(strings.TrimSpace(c.App.Timezone))
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.App.Timezone, err)
	}
	c.location = loc

	if id := strings.TrimSpace(c.Telegram.ChatID); id != "" {
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			return fmt.Errorf("invalid telegram chat id %q", id)
		}
	}
	return nil
}

// RequireDatabase fails when no DSN is configured.
func (c *Config) RequireDatabase() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("config: database DSN is required")
	}
	return nil
}

// HTTPAddress returns :port style address.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// CacheTTL returns stats cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	if c.Redis.TTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

// TelegramTimeout returns Bot API request timeout.
func (c *Config) TelegramTimeout() time.Duration {
	if c.Telegram.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Telegram.TimeoutSeconds) * time.Second
}

// TelegramChatID returns the allowed chat and whether one is configured.
func (c *Config) TelegramChatID() (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Telegram.ChatID), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// TokenTTL returns API token lifetime.
func (c *Config) TokenTTL() time.Duration {
	if c.Auth.TokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

// WriteTimeout returns websocket write timeout.
func (c *Config) WriteTimeout() time.Duration {
	if c.WebSocket.WriteTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.WebSocket.WriteTimeoutSeconds) * time.Second
}

// Location returns the zone used to resolve "today".
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
