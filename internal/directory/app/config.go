package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/linkbot/internal/directory/store/drivers/sqlite"
)

type Config struct {
	DatabaseFile        string        // Path to the SQLite database file (default: linkbot.db)
	BotName             string        // Chat bot username used in start links (default: linkbot)
	BusyTimeout         time.Duration // Per-operation store deadline (default: 30s)
	AdminToken          string        // Optional: enables /v1/admin when set
	ResyncInterval      time.Duration // Directory rebuild interval, 0 disables (default: 1h)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (trace, debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		DatabaseFile:        getEnvOrDefault("LINKBOT_DATABASE_FILE", "linkbot.db"),
		BotName:             getEnvOrDefault("LINKBOT_BOT_NAME", "linkbot"),
		BusyTimeout:         getEnvDurationOrDefault("LINKBOT_BUSY_TIMEOUT", sqlite.DefaultBusyTimeout),
		AdminToken:          os.Getenv("LINKBOT_ADMIN_TOKEN"),
		ResyncInterval:      getEnvDurationOrDefault("LINKBOT_RESYNC_INTERVAL", 1*time.Hour),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("90s", "1h") or plain
// integer minutes.
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
