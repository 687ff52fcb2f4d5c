package app

import (
	"os"
	"strconv"
	"time"

	"github.com/fauzaanirsyaadi/user-management-BE/pkg/jwtx"
)

type Config struct {
	Issuer    string        // Optional: issuer claim for tokens (default: usermgmt)
	JWTSecret string        // Optional: HMAC secret for token signing; a random one is generated when unset
	AccessTTL time.Duration // Optional: access token lifetime (default: 24h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./users.db)

	SeedAccounts      bool   // Optional: create default admin/user accounts on startup (default: true)
	SeedAdminPassword string // Optional: initial password for the seeded admin account
	SeedUserPassword  string // Optional: initial password for the seeded user account

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:            getEnvOrDefault("AUTH_ISSUER", "usermgmt"),
		JWTSecret:         os.Getenv("AUTH_JWT_SECRET"),
		AccessTTL:         getEnvDurationOrDefault("AUTH_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		DatabaseFile:      getEnvOrDefault("DATABASE_FILE", "users.db"),
		SeedAccounts:      getEnvBoolOrDefault("SEED_ACCOUNTS", true),
		SeedAdminPassword: getEnvOrDefault("SEED_ADMIN_PASSWORD", "admin123"),
		SeedUserPassword:  getEnvOrDefault("SEED_USER_PASSWORD", "user123"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
