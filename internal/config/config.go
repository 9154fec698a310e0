// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultPort      = 8080
	DefaultDBPath    = "data/rotation.db"
	DefaultStaticDir = "public"
	DefaultLogLevel  = "info"
)

// Config captures the runtime configuration for the server.
type Config struct {
	Port      int
	DBPath    string
	StaticDir string
	LogLevel  string

	// CORSAllowedOrigins enables CORS for the listed origins. Empty disables
	// the CORS middleware entirely.
	CORSAllowedOrigins []string
}

// Load inspects the environment and builds a Config value. A .env file, if
// any, must already have been loaded by the caller.
func Load() (Config, error) {
	cfg := Config{
		Port:               DefaultPort,
		DBPath:             firstNonEmpty(os.Getenv("DB_PATH"), DefaultDBPath),
		StaticDir:          firstNonEmpty(os.Getenv("STATIC_DIR"), DefaultStaticDir),
		LogLevel:           firstNonEmpty(os.Getenv("LOG_LEVEL"), DefaultLogLevel),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	if raw := strings.TrimSpace(os.Getenv("PORT")); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT %q: %w", raw, err)
		}
		cfg.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level. Names are case-insensitive
// and an empty name means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
