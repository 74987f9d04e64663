// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	ServerPort      string
	StorageBackend  string
	DBConn          string
	SQLitePath      string
	AutoMigrate     bool
	LogLevel        string
	GinMode         string
	ShutdownTimeout time.Duration

	TelegramToken    string
	BotAllowedChatID int64
}

// MustLoad читает .env (если есть) и переменные окружения.
// Некорректная конфигурация завершает процесс.
func MustLoad() Config {
	_ = godotenv.Load()

	cfg, err := Load()
	if err != nil {
		slog.Error("Некорректная конфигурация", "error", err)
		os.Exit(1)
	}
	return cfg
}

// Load builds the configuration from the environment and validates it.
func Load() (Config, error) {
	var errs []error

	autoMigrate, err := getEnvBool("AUTO_MIGRATE", true)
	if err != nil {
		errs = append(errs, err)
	}
	shutdown, err := getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		errs = append(errs, err)
	}
	chatID, err := getEnvInt64("BOT_ALLOWED_CHAT_ID", 0)
	if err != nil {
		errs = append(errs, err)
	}

	cfg := Config{
		ServerPort:       getEnv("PORT", "8080"),
		StorageBackend:   strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory)),
		DBConn:           getEnv("DATABASE_URL", ""),
		SQLitePath:       getEnv("SQLITE_PATH", "./data/finance.db"),
		AutoMigrate:      autoMigrate,
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
		GinMode:          getEnv("GIN_MODE", "release"),
		ShutdownTimeout:  shutdown,
		TelegramToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		BotAllowedChatID: chatID,
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.ServerPort); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.ServerPort))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DBConn == "" {
			problems = append(problems, "DATABASE_URL is required for the postgres backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			problems = append(problems, "SQLITE_PATH is required for the sqlite backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid storage backend %q: must be one of memory, postgres, sqlite", c.StorageBackend))
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		problems = append(problems, fmt.Sprintf("invalid GIN_MODE %q: must be debug, release or test", c.GinMode))
	}

	if c.ShutdownTimeout <= 0 {
		problems = append(problems, "SHUTDOWN_TIMEOUT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Addr returns the listen address for http.Server.
func (c Config) Addr() string {
	return ":" + c.ServerPort
}

// SlogLevel maps LOG_LEVEL onto slog; unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: must be debug, info, warn or error", s)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: must be true or false", key, v)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: must be an integer", key, v)
	}
	return n, nil
}
