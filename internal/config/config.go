package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds every runtime setting read from the environment.
type Config struct {
	Port     string
	LogLevel string

	DBDriver    string // postgres | sqlite
	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	SQLitePath  string

	AuthEnabled   bool
	JWTSecret     string
	AdminEmail    string
	AdminPassword string

	// TraceMaxDepth bounds the lineage walk.
	TraceMaxDepth int
	// StrictSeedlingStock rejects transplants larger than the available seedlings.
	StrictSeedlingStock bool
}

// Load reads the configuration. godotenv must already have populated the
// environment when a .env file is used.
func Load() *Config {
	return &Config{
		Port:                getEnv("PORT", "3000"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DBDriver:            strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              os.Getenv("DB_NAME"),
		DBPort:              getEnv("DB_PORT", "5432"),
		SQLitePath:          getEnv("SQLITE_PATH", "farm.db"),
		AuthEnabled:         getBool("AUTH_ENABLED", false),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AdminEmail:          getEnv("ADMIN_EMAIL", "admin@farm.local"),
		AdminPassword:       getEnv("ADMIN_PASSWORD", "admin123"),
		TraceMaxDepth:       getInt("TRACE_MAX_DEPTH", 100),
		StrictSeedlingStock: getBool("STRICT_SEEDLING_STOCK", false),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
