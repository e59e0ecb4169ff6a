// Package config loads server configuration from the environment, with a
// .env file picked up when present.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server's runtime configuration.
type Config struct {
	Port     string
	DBPath   string
	LogLevel string

	JWTSecret string
	TokenTTL  time.Duration

	// RecomputeGoalsOnDelete re-aggregates goal totals when a split
	// expense or settle-up is deleted instead of leaving them stale.
	RecomputeGoalsOnDelete bool
}

// Load reads configuration from the environment. JWT_SECRET is required;
// everything else has a sensible default.
func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:                   getEnv("PORT", "8080"),
		DBPath:                 getEnv("DB_PATH", "./data/splitledger.db"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		TokenTTL:               getDuration("TOKEN_TTL", 24*time.Hour),
		RecomputeGoalsOnDelete: getBool("RECOMPUTE_GOALS_ON_DELETE", false),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("%s: invalid duration %q", key, value)
	}
	return d
}

func getBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Fatalf("%s: invalid bool %q", key, value)
	}
	return b
}
