package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the client runtime configuration
type Config struct {
	Env          string
	APIBaseURL   string
	GatewayURL   string
	SessionToken string
	PageSize     int
	PollAttempts int
	PollDelay    time.Duration
	LogLevel     string
}

// Load reads configuration from the environment, with a .env file as a
// development convenience
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Env:          getEnv("ENV", "development"),
		APIBaseURL:   getEnv("API_BASE_URL", "http://localhost:8080"),
		GatewayURL:   getEnv("GATEWAY_URL", "ws://localhost:8081/ws"),
		SessionToken: getEnv("SESSION_TOKEN", ""),
		PageSize:     getEnvInt("PAGE_SIZE", 10),
		PollAttempts: getEnvInt("POLL_ATTEMPTS", 10),
		PollDelay:    time.Duration(getEnvInt("POLL_DELAY_MS", 1000)) * time.Millisecond,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
