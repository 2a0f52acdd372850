package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Store.Seed)
	assert.Equal(t, time.Second, cfg.Registration.Latency)
	assert.False(t, cfg.Registration.CountTickets)
	assert.Equal(t, 5*time.Second, cfg.Featured.Interval)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
	assert.Empty(t, cfg.Telegram.BotToken)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("STORE_DRIVER", " SQLite ")
	t.Setenv("REGISTRATION_LATENCY", "0s")
	t.Setenv("REGISTRATION_COUNT_TICKETS", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_PORT", "6543")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Zero(t, cfg.Registration.Latency)
	assert.True(t, cfg.Registration.CountTickets)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	assert.Contains(t, cfg.Postgres.DSN(), "port=6543")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("FEATURED_INTERVAL", "0s")

	_, err := Load()
	assert.Error(t, err)
}
