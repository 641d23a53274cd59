package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion       string
	MetricsNamespace string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB run store; empty URI falls back to the in-memory store
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Postgres booking store; empty DSN falls back to the seeded
	// in-memory repository
	PostgresDSN string

	// Redis search cache; empty address disables caching
	RedisAddr string

	// Engine
	RunRetention  int
	IssuanceDelay time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:       getEnv("APP_VERSION", "1.0.0"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "reissue"),
		Port:             getEnv("PORT", "8080"),
		ReadTimeout:      time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout:     time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", ""),
		MongoDB:       getEnv("MONGO_DB", "reissue"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresDSN: getEnv("POSTGRES_DSN", ""),
		RedisAddr:   getEnv("REDIS_ADDR", ""),

		RunRetention:  getEnvAsInt("RUN_RETENTION", 100),
		IssuanceDelay: time.Duration(getEnvAsInt("ISSUANCE_DELAY_MS", 1500)) * time.Millisecond,
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
