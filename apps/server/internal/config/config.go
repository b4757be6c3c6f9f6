package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	HTTPAddr       string
	LogLevel       string
	LogPretty      bool
	StoreMode      string // memory, sqlite, postgres
	SQLitePath     string
	DatabaseURL    string
	MaxUploadBytes int64
	ParseWorkers   int
	ReplayPacing   time.Duration
	CORSOrigins    []string
	Archive        ArchiveConfig
}

// ArchiveConfig locates the bucket raw uploads are copied to. An empty
// Bucket disables archiving.
type ArchiveConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Load reads configuration from environment variables, after a .env file
// when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8000"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogPretty:      getEnvAsBool("LOG_PRETTY", false),
		StoreMode:      strings.ToLower(getEnv("STORE_MODE", "sqlite")),
		SQLitePath:     getEnv("SQLITE_PATH", "./data/tournaments.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 10<<20)),
		ParseWorkers:   getEnvAsInt("PARSE_WORKERS", 0),
		ReplayPacing:   time.Duration(getEnvAsInt("REPLAY_PACING_MS", 400)) * time.Millisecond,
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Archive: ArchiveConfig{
			Bucket:          getEnv("ARCHIVE_BUCKET", ""),
			Region:          getEnv("ARCHIVE_REGION", "auto"),
			Endpoint:        getEnv("ARCHIVE_ENDPOINT", ""),
			AccessKeyID:     getEnv("ARCHIVE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("ARCHIVE_SECRET_ACCESS_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	switch c.StoreMode {
	case "memory":
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required in sqlite mode")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required in postgres mode")
		}
	default:
		return fmt.Errorf("unknown STORE_MODE %q", c.StoreMode)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
