package main

import (
	"errors"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"pgtodo/internal/store"
)

// Config is the process configuration read from the environment.
type Config struct {
	Addr            string
	DB              store.Config
	OTELStdout      bool
	ShutdownTimeout time.Duration
}

// loadConfig reads Config from the environment. Malformed numbers and
// durations fall back to their defaults with a warning.
func loadConfig(logger *zap.Logger) (Config, error) {
	cfg := Config{
		Addr: getEnv("ADDR", "127.0.0.1:3000"),
		DB: store.Config{
			Driver:         getEnv("DB_DRIVER", "postgres"),
			MaxConns:       getEnvInt(logger, "DB_MAX_CONNS", 5),
			AcquireTimeout: getEnvDuration(logger, "DB_ACQUIRE_TIMEOUT", 3*time.Second),
		},
		OTELStdout:      getEnv("OTEL_STDOUT", "") == "true",
		ShutdownTimeout: getEnvDuration(logger, "SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.DB.Driver == "sqlite3" {
		cfg.DB.URL = getEnv("DB_PATH", "./data/todos.db")
	} else {
		cfg.DB.URL = os.Getenv("DATABASE_URL")
		if cfg.DB.URL == "" {
			return Config{}, errors.New("DATABASE_URL is not set")
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(logger *zap.Logger, key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		logger.Warn("invalid integer, using default",
			zap.String("key", key),
			zap.String("raw", raw),
			zap.Int("default", defaultValue),
		)
		return defaultValue
	}
	return n
}

func getEnvDuration(logger *zap.Logger, key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Warn("invalid duration, using default",
			zap.String("key", key),
			zap.String("raw", raw),
			zap.Duration("default", defaultValue),
			zap.Error(err),
		)
		return defaultValue
	}
	return d
}
