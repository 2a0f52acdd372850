// Package config loads service settings from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the full service configuration.
type Config struct {
	Server       ServerConfig       `envPrefix:"SERVER_"`
	Log          LogConfig          `envPrefix:"LOG_"`
	Store        StoreConfig        `envPrefix:"STORE_"`
	Postgres     PostgresConfig     `envPrefix:"DB_"`
	Registration RegistrationConfig `envPrefix:"REGISTRATION_"`
	Featured     FeaturedConfig     `envPrefix:"FEATURED_"`
	Telegram     TelegramConfig     `envPrefix:"TELEGRAM_"`
	OTel         OTelConfig         `envPrefix:"OTEL_"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `env:"ADDR"             envDefault:":8080" validate:"required"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT"     envDefault:"15s"   validate:"gt=0"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    envDefault:"15s"   validate:"gt=0"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT"     envDefault:"60s"   validate:"gt=0"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"   validate:"gt=0"`
}

// LogConfig selects the slog level and output format.
type LogConfig struct {
	Level  string `env:"LEVEL"  envDefault:"info" validate:"oneof=debug info warn error"`
	Format string `env:"FORMAT" envDefault:"json" validate:"oneof=json text"`
}

// SlogLevel maps the configured level onto slog.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StoreConfig picks the event store backend.
type StoreConfig struct {
	Driver     string `env:"DRIVER"      envDefault:"memory" validate:"oneof=memory sqlite postgres"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"file:eventhub.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"`
	// Seed loads the static catalog into an empty store at startup.
	Seed bool `env:"SEED" envDefault:"true"`
}

// PostgresConfig holds the PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432" validate:"min=1,max=65535"`
	User     string `env:"USER"     envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:"postgres"`
	DBName   string `env:"NAME"     envDefault:"eventhub"`
	SSLMode  string `env:"SSLMODE"  envDefault:"disable" validate:"oneof=disable require verify-ca verify-full"`
	MaxConns int32  `env:"MAX_CONNS" envDefault:"20" validate:"min=1"`
	MinConns int32  `env:"MIN_CONNS" envDefault:"2"  validate:"min=0"`
}

// DSN builds a libpq-compatible connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RegistrationConfig tunes the registration workflow.
type RegistrationConfig struct {
	// Latency is the simulated processing delay before a registration
	// is applied.
	Latency time.Duration `env:"LATENCY" envDefault:"1s" validate:"gte=0"`
	// CountTickets makes a registration consume one seat per ticket
	// instead of one seat per registration.
	CountTickets bool `env:"COUNT_TICKETS" envDefault:"false"`
}

// FeaturedConfig sets the featured rotation period.
type FeaturedConfig struct {
	Interval time.Duration `env:"INTERVAL" envDefault:"5s" validate:"gt=0"`
}

// TelegramConfig enables registration notifications when BotToken is set.
type TelegramConfig struct {
	BotToken string `env:"BOT_TOKEN"`
	ChatID   int64  `env:"CHAT_ID"`
}

// OTelConfig enables OTLP tracing when Endpoint is set.
type OTelConfig struct {
	Endpoint    string `env:"EXPORTER_ENDPOINT"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"eventhub"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}
