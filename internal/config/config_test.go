package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joannatufkova/mindset/internal/game"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "http://localhost:5173", cfg.ClientOrigin)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, "./data/mindset.db", cfg.DBPath)
	assert.Equal(t, game.RuleMembership, cfg.Rule)
	assert.True(t, cfg.InsecureTokenSecret())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"PORT":         "8080",
		"LOG_LEVEL":    "debug",
		"LOG_FORMAT":   "Console",
		"TOKEN_SECRET": "prod",
		"TOKEN_TTL":    "90m",
		"STORE_DRIVER": "sqlite",
		"DB_PATH":      "/tmp/x.db",
		"SCORING_RULE": "classic",
	}))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, game.RuleClassic, cfg.Rule)
	assert.False(t, cfg.InsecureTokenSecret())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"log level":    {"LOG_LEVEL": "loud"},
		"log format":   {"LOG_FORMAT": "xml"},
		"ttl":          {"TOKEN_TTL": "soon"},
		"negative ttl": {"TOKEN_TTL": "-1h"},
		"driver":       {"STORE_DRIVER": "redis"},
		"rule":         {"SCORING_RULE": "hard"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(vars))
			assert.Error(t, err)
		})
	}
}
