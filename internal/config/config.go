package config

import (
	"os"
	"strconv"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	Port    string
	GinMode string

	// Identity provider token verification.
	JWTSecret string
	JWTIssuer string

	// Per-actor requests per minute; 0 disables rate limiting.
	RateLimitPerMinute int
}

func Load() *Config {
	return &Config{
		DBDriver:           getEnv("DB_DRIVER", "postgres"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "tracker"),
		DBPassword:         getEnv("DB_PASSWORD", "tracker"),
		DBName:             getEnv("DB_NAME", "task_tracker"),
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		JWTSecret:          getEnv("JWT_SECRET", "default-secret-key-change-me"),
		JWTIssuer:          getEnv("JWT_ISSUER", "identity-service"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
