package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds the application configuration.
type Config struct {
	HostURL        string // host:port the HTTP server binds to
	DatabaseURL    string
	DatabaseName   string
	CollectionName string
	LogLevel       zerolog.Level
	AllowedOrigins []string
}

// Load reads configuration from the environment, after merging in a .env
// file from the working directory if one exists.
func Load() (*Config, error) {
	// A missing .env file is not an error; real environment variables win.
	_ = godotenv.Load()

	hostURL, err := requireEnv("HOST_URL")
	if err != nil {
		return nil, err
	}
	databaseURL, err := requireEnv("DATABASE_URL")
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return &Config{
		HostURL:        hostURL,
		DatabaseURL:    databaseURL,
		DatabaseName:   getEnv("DATABASE_NAME", "rustDB"),
		CollectionName: getEnv("COLLECTION_NAME", "User"),
		LogLevel:       level,
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}, nil
}

func requireEnv(key string) (string, error) {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("environment variable %s is required", key)
	}
	return value, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
