package app

import (
	"os"
	"strconv"
	"time"
)

// Config is loaded once at process start from the environment, playing the
// role of the "Configuration Source" collaborator named in spec §2 — its
// loader is out of scope for the core, but a runnable service needs one.
type Config struct {
	URLTemplate   string // Required: e.g. "https://idp.example.net/auth?token=%s"
	ReservedRooms string // Optional: CSV of reserved room local-parts

	TokenLifetime      time.Duration
	PreAuthLifetime    time.Duration
	ExpiryPollInterval time.Duration

	FocusSecret string // Required to use the demo focus-control endpoints

	Env                 string
	LogLevel            string
	LogFormat           string
	Port                int
	ShutdownGracePeriod time.Duration
}

// LoadConfig reads Config from the environment, applying the same defaults
// named in spec §6's configuration key table.
func LoadConfig() Config {
	return Config{
		URLTemplate:         os.Getenv("AUTHORITY_URL_TEMPLATE"),
		ReservedRooms:       os.Getenv("AUTHORITY_RESERVED_ROOMS"),
		TokenLifetime:       getEnvDurationOrDefault("AUTHORITY_TOKEN_LIFETIME", 60*time.Second),
		PreAuthLifetime:     getEnvDurationOrDefault("AUTHORITY_PRE_AUTH_LIFETIME", 30*time.Second),
		ExpiryPollInterval:  getEnvDurationOrDefault("AUTHORITY_EXPIRY_POLL_INTERVAL", 10*time.Second),
		FocusSecret:         os.Getenv("AUTHORITY_FOCUS_SECRET"),
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
