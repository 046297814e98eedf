// internal/config/config.go
//
// Server configuration.
// Responsibilities:
//   - Load a .env file with godotenv (ignored when missing).
//   - Read settings from the environment, applying defaults for unset or empty
//     variables.
//   - Reject invalid values at startup.

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/joannatufkova/mindset/internal/game"
)

const devTokenSecret = "dev_secret_change_me"

// Config is the resolved server configuration.
type Config struct {
	Port         string        // PORT
	LogLevel     zerolog.Level // LOG_LEVEL
	LogFormat    string        // LOG_FORMAT: json | console
	ClientOrigin string        // CLIENT_ORIGIN, for CORS
	TokenSecret  string        // TOKEN_SECRET
	TokenTTL     time.Duration // TOKEN_TTL
	StoreDriver  string        // STORE_DRIVER: memory | sqlite
	DBPath       string        // DB_PATH, sqlite only
	DailySalt    string        // DAILY_SALT
	Rule         game.Rule     // SCORING_RULE: membership | classic
}

// Load reads .env files (if present) and then the process environment.
func Load(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)
	return FromEnv(os.Getenv)
}

// FromEnv resolves a Config through lookup, which is os.Getenv outside tests.
func FromEnv(lookup func(string) string) (Config, error) {
	get := func(k, def string) string {
		if v := strings.TrimSpace(lookup(k)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:         get("PORT", "5175"),
		LogFormat:    strings.ToLower(get("LOG_FORMAT", "json")),
		ClientOrigin: get("CLIENT_ORIGIN", "http://localhost:5173"),
		TokenSecret:  get("TOKEN_SECRET", devTokenSecret),
		StoreDriver:  strings.ToLower(get("STORE_DRIVER", "memory")),
		DBPath:       get("DB_PATH", "./data/mindset.db"),
		DailySalt:    get("DAILY_SALT", "local_dev_salt"),
	}

	lvl, err := zerolog.ParseLevel(get("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = lvl

	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return Config{}, fmt.Errorf("LOG_FORMAT: want json or console, got %q", cfg.LogFormat)
	}

	ttl, err := time.ParseDuration(get("TOKEN_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL: must be positive, got %s", ttl)
	}
	cfg.TokenTTL = ttl

	if cfg.StoreDriver != "memory" && cfg.StoreDriver != "sqlite" {
		return Config{}, fmt.Errorf("STORE_DRIVER: want memory or sqlite, got %q", cfg.StoreDriver)
	}

	rule, err := game.ParseRule(lookup("SCORING_RULE"))
	if err != nil {
		return Config{}, fmt.Errorf("SCORING_RULE: %w", err)
	}
	cfg.Rule = rule

	return cfg, nil
}

// InsecureTokenSecret reports whether the built-in development secret is in use.
func (c Config) InsecureTokenSecret() bool { return c.TokenSecret == devTokenSecret }
