// Package config provides configuration management for the storeapi CLI.
//
// Configuration is assembled from defaults, an optional YAML config file,
// STOREAPI_-prefixed environment variables, and CLI flags, in increasing
// order of precedence.
package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
)

// Default configuration values.
const (
	DefaultAddr          = ":8000"
	DefaultDriver        = "mysql"
	DefaultMigrationsDir = "internal/store/migrations"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Driver   string            `koanf:"driver"` // mysql or postgres
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	Name     string            `koanf:"name"`
	Params   map[string]string `koanf:"params"` // extra driver options, e.g. parseTime
}

// Config holds all CLI configuration options.
type Config struct {
	Server        ServerConfig   `koanf:"server"`
	Database      DatabaseConfig `koanf:"database"`
	MigrationsDir string         `koanf:"migrations_dir"`
	Verbose       bool           `koanf:"verbose"`
}

// MigrationsDirFor returns the on-disk migrations directory for the given
// dialect. New migration files created by `migrate create` land here.
func (c *Config) MigrationsDirFor(dialect string) string {
	return filepath.Join(c.MigrationsDir, dialect)
}

type configKey struct{}
type loggerKey struct{}

// WithConfig stores the config on the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from the context, or nil if absent.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return nil
}

// WithLogger stores the logger on the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the context, falling back to a
// text handler on stderr.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
