package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the loaded service configuration.
type Config struct {
	Port           string
	Env            string
	RedisURL       string
	CatalogBaseURL string
	JWTSecret      string
	AllowedOrigins []string
	DraftTTL       time.Duration
}

// Load reads configuration from the .env file, falling back to
// environment variables.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return Config{
		Port:           getEnv("PORT", "8091"),
		Env:            getEnv("APP_ENV", "development"),
		RedisURL:       getEnv("REDIS_URL", "redis://redis:6379"),
		CatalogBaseURL: getEnv("CATALOG_API_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		DraftTTL:       getDurationEnv("DRAFT_TTL", time.Hour*24*7),
	}
}

// getEnv returns an environment variable or its fallback. Variables
// with an empty fallback are required.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	if fallback == "" {
		log.Fatalf("FATAL: Environment variable %s is not set.", key)
	}
	return fallback
}

// getDurationEnv parses a Go duration string such as "168h" from the
// environment, keeping the fallback on absence or a bad value.
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration %q for %s, using default %s", value, key, fallback)
		return fallback
	}
	return d
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
