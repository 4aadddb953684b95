package config

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Output   string
	Profile  string
	Timezone string
	Status   string
	LogLevel slog.Level
}

func Load() Config {
	return Config{
		Output:   envOr("TASKPORT_OUTPUT", "todoist_import.csv"),
		Profile:  envOr("TASKPORT_PROFILE", "standard"),
		Timezone: os.Getenv("TASKPORT_TZ"),
		Status:   os.Getenv("TASKPORT_STATUS"),
		LogLevel: parseLogLevel(os.Getenv("TASKPORT_LOG_LEVEL")),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
