package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	Session  SessionConfig
	Log      LogConfig
	Admin    AdminConfig
	// OpTimeout bounds a single view-model operation against the store.
	OpTimeout time.Duration `env:"OP_TIMEOUT" envDefault:"5s"`
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string `env:"DB_PATH" envDefault:"smart_text_vision.db"`
}

// SessionConfig names the account treated as signed in on startup.
type SessionConfig struct {
	Email string `env:"SESSION_EMAIL" envDefault:"current@email.com"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// AdminConfig describes the administrator created by the seed-admin command.
type AdminConfig struct {
	Name     string `env:"ADMIN_NAME" envDefault:"Administrator"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return parse()
}

// LoadFile is like Load but reads the given dotenv files, which must exist.
func LoadFile(paths ...string) (*Config, error) {
	if err := godotenv.Load(paths...); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return parse()
}

func parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.OpTimeout <= 0 {
		return nil, fmt.Errorf("OP_TIMEOUT must be positive, got %s", cfg.OpTimeout)
	}
	return &cfg, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	admin := "unset"
	if c.Admin.Email != "" {
		admin = c.Admin.Email + " / *** (masked) ***"
	}
	return fmt.Sprintf("Config{DB: %s, Session: %s, Log: %s, Admin: %s, OpTimeout: %s}",
		c.Database.Path, c.Session.Email, c.Log.Level, admin, c.OpTimeout)
}
