package core

import (
	"os"
	"strconv"
	"time"
)

// Config carries every environment-derived setting. It is resolved once at
// process start and passed by reference; handlers never read the environment
// themselves.
type Config struct {
	Port        string
	Environment string

	MongoURI      string
	MongoDatabase string

	StoreTimeout    time.Duration
	BodyReadTimeout time.Duration

	StaleAfter time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Port:            getenv("PORT", "8080"),
		Environment:     getenv("ENVIRONMENT", "production"),
		MongoURI:        os.Getenv("MONGODB_URI"),
		MongoDatabase:   getenv("MONGODB_DATABASE", "photobooth"),
		StoreTimeout:    getenvDuration("STORE_TIMEOUT", 8*time.Second),
		BodyReadTimeout: getenvDuration("BODY_READ_TIMEOUT", 5*time.Second),
		StaleAfter:      getenvDuration("STALE_AFTER", 24*time.Hour),
	}
}

// IsDebug reports whether the process runs in the debug environment, which
// skips background jobs and allows the in-memory store.
func (c *Config) IsDebug() bool {
	return c.Environment == "debug"
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
