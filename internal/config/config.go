package config

import (
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port         string
	DatabasePath string // SQLite database file path
	RedisURL     string

	// Supervisor room configuration
	Room            string // pub/sub room for supervisor notifications
	RoomTokenSecret string // HMAC secret for room capability tokens

	// Escalation lifecycle configuration
	RequestTimeout time.Duration // how long a request stays PENDING before it can be reaped
	ReaperInterval time.Duration // how often the timeout reaper sweeps

	// Capability token TTLs
	DashboardTokenTTL time.Duration // long-lived tokens for dashboard identities
	PublisherTokenTTL time.Duration // short-lived tokens for server-side publishers
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		DatabasePath: getEnv("DATABASE_PATH", "./data.db"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),

		Room:            getEnv("SUPERVISOR_ROOM", "supervisor-room"),
		RoomTokenSecret: getEnv("ROOM_TOKEN_SECRET", ""),

		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 10*time.Minute),
		ReaperInterval: getDurationEnv("REAPER_INTERVAL", 60*time.Second),

		DashboardTokenTTL: getDurationEnv("DASHBOARD_TOKEN_TTL", 10*time.Hour),
		PublisherTokenTTL: getDurationEnv("PUBLISHER_TOKEN_TTL", 5*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
