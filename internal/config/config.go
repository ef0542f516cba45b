// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aristath/trading-journal/internal/modules/settings"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for the sqlite databases
	Port     int
	LogLevel string
	DevMode  bool

	// Capital baseline added to the summed profit of the merged ledger.
	// May be overridden per deployment from the settings database.
	InitialCapital float64

	// CORS
	AllowedOrigins []string

	// Identity service that verifies bearer tokens
	AuthServiceURL string

	// Attachment uploads
	Uploads UploadsConfig
}

// UploadsConfig holds S3 upload configuration
type UploadsConfig struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	PublicURL string // Public base URL for uploaded objects
	MaxBytes  int64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "")
	if dataDir == "" {
		if _, err := os.Stat("./data"); err == nil {
			dataDir = "./data"
		} else {
			dataDir = "../data"
		}
	}

	cfg := &Config{
		DataDir:        dataDir,
		Port:           getEnvAsInt("PORT", 8080),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DevMode:        getEnvAsBool("DEV_MODE", false),
		InitialCapital: getEnvAsFloat("INITIAL_CAPITAL", 0),
		AllowedOrigins: splitAndTrim(getEnv("FRONTEND_URL", "*")),
		AuthServiceURL: getEnv("AUTH_SERVICE_URL", "http://localhost:9099"),
		Uploads: UploadsConfig{
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "eu-central-1"),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			PublicURL: getEnv("S3_PUBLIC_URL", ""),
			MaxBytes:  int64(getEnvAsInt("MAX_UPLOAD_BYTES", 10<<20)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// UpdateFromSettings overrides the capital baseline from the settings database.
// A stored value takes precedence over the environment; an unset or unparsable
// value keeps the environment default.
func (c *Config) UpdateFromSettings(settingsRepo *settings.Repository) error {
	value, err := settingsRepo.Get(settings.KeyInitialCapital)
	if err != nil {
		return fmt.Errorf("failed to read initial capital setting: %w", err)
	}
	if value == nil {
		return nil
	}

	parsed, err := strconv.ParseFloat(strings.TrimSpace(*value), 64)
	if err != nil {
		// Keep the env default; a corrupt setting must not take the service down
		return nil
	}
	c.InitialCapital = parsed

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		out = []string{"*"}
	}
	return out
}
