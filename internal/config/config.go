package config

import (
	"os"
	"strconv"
	"time"

	"schedex/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Ops        OpsConfig
	Database   DatabaseConfig
	Enrichment EnrichmentConfig
}

// ServerConfig holds parse API server settings
type ServerConfig struct {
	Port        string
	GinMode     string
	MaxUploadMB int
}

// OpsConfig holds operational server settings
type OpsConfig struct {
	Port string
}

// DatabaseConfig holds database connection settings. An empty URL runs
// the service without run persistence.
type DatabaseConfig struct {
	URL string
}

// EnrichmentConfig holds LLM enrichment settings
type EnrichmentConfig struct {
	Enabled          bool
	Provider         string
	APIKey           string
	BaseURL          string
	Model            string
	Mode             string
	MinMissingFields int
	BatchSize        int
	Concurrency      int
	Timeout          time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:     loadServerConfig(),
		Ops:        loadOpsConfig(),
		Database:   loadDatabaseConfig(),
		Enrichment: loadEnrichmentConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:        getEnvOrDefault("PORT", "8080"),
		GinMode:     getEnvOrDefault("GIN_MODE", "debug"),
		MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 20),
	}
}

func loadOpsConfig() OpsConfig {
	return OpsConfig{
		Port: getEnvOrDefault("OPS_PORT", "8081"),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL: getEnvOrDefault("DATABASE_URL", ""),
	}
}

func loadEnrichmentConfig() EnrichmentConfig {
	return EnrichmentConfig{
		Enabled:          getEnvBoolOrDefault("USE_LLM", false),
		Provider:         getEnvOrDefault("LLM_PROVIDER", "deepinfra"),
		APIKey:           getEnvOrDefault("DEEPINFRA_API_KEY", ""),
		BaseURL:          getEnvOrDefault("LLM_BASE_URL", ""),
		Model:            getEnvOrDefault("LLM_MODEL", "openai/gpt-oss-120b"),
		Mode:             getEnvOrDefault("LLM_MODE", "fallback"),
		MinMissingFields: getEnvIntOrDefault("LLM_MIN_MISSING_FIELDS", 3),
		BatchSize:        getEnvIntOrDefault("LLM_BATCH_SIZE", 5),
		Concurrency:      getEnvIntOrDefault("LLM_CONCURRENCY", 2),
		Timeout:          getEnvDurationOrDefault("LLM_TIMEOUT", 60*time.Second),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Enrichment.Enabled && config.Enrichment.APIKey == "" {
		return errors.ConfigInvalid("DEEPINFRA_API_KEY is required when USE_LLM is enabled")
	}
	if mode := config.Enrichment.Mode; mode != "fallback" && mode != "refine" {
		return errors.ConfigInvalid("LLM_MODE must be \"fallback\" or \"refine\"")
	}
	if config.Enrichment.BatchSize <= 0 {
		return errors.ConfigInvalid("LLM_BATCH_SIZE must be positive")
	}
	if config.Enrichment.Concurrency <= 0 {
		return errors.ConfigInvalid("LLM_CONCURRENCY must be positive")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
