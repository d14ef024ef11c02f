package config

import (
	"os"
	"strconv"

	"cleanmycsv/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server Server
	Upload Upload
	Clean  Clean
	Ops    Ops
}

// Server holds web server settings
type Server struct {
	Port    string
	GinMode string
}

// Upload holds upload limits and admission settings
type Upload struct {
	MaxFileSizeMB       int
	MaxConcurrentCleans int64
}

// Clean holds cleaning pipeline policy defaults
type Clean struct {
	NumericThreshold float64
	DateThreshold    float64
}

// Ops holds the operational sidecar server settings
type Ops struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: Server{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Upload: Upload{
			MaxFileSizeMB:       getEnvIntOrDefault("MAX_UPLOAD_MB", 50),
			MaxConcurrentCleans: int64(getEnvIntOrDefault("MAX_CONCURRENT_CLEANS", 4)),
		},
		Clean: Clean{
			NumericThreshold: getEnvFloatOrDefault("NUMERIC_THRESHOLD", 0.9),
			DateThreshold:    getEnvFloatOrDefault("DATE_THRESHOLD", 0.9),
		},
		Ops: Ops{
			Port:    getEnvOrDefault("OPS_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("OPS_ENABLED", true),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Upload.MaxFileSizeMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Upload.MaxConcurrentCleans <= 0 {
		return errors.ConfigInvalid("MAX_CONCURRENT_CLEANS must be positive")
	}
	if config.Clean.NumericThreshold <= 0 || config.Clean.NumericThreshold > 1 {
		return errors.ConfigInvalid("NUMERIC_THRESHOLD must be in (0, 1]")
	}
	if config.Clean.DateThreshold <= 0 || config.Clean.DateThreshold > 1 {
		return errors.ConfigInvalid("DATE_THRESHOLD must be in (0, 1]")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
