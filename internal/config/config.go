package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"civia/internal/errors"
)

// DefaultAPIBaseURL is used when no base URL is supplied by the environment
const DefaultAPIBaseURL = "http://127.0.0.1:8000"

// Config represents the complete application configuration
type Config struct {
	Backend BackendConfig
	Server  ServerConfig
	Pages   PageConfig
	Fixture FixtureConfig
}

// BackendConfig holds the analytics backend connection settings
type BackendConfig struct {
	BaseURL  string
	KpisPath string
	// Timeout of zero leaves requests without a client-side deadline
	Timeout time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// PageConfig holds page session settings
type PageConfig struct {
	IdleTTL      time.Duration
	PollInterval time.Duration
}

// FixtureConfig holds settings of the development fixture backend
type FixtureConfig struct {
	Port      string
	ChartsDir string
	// MetricsFile is an optional XLSX workbook replacing the canned metrics
	MetricsFile string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Backend: *loadBackendConfig(),
		Server:  *loadServerConfig(),
		Pages:   *loadPageConfig(),
		Fixture: *loadFixtureConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadBackendConfig() *BackendConfig {
	baseURL := getEnvOrDefault("API_BASE_URL", getEnvOrDefault("VITE_API_BASE_URL", DefaultAPIBaseURL))

	return &BackendConfig{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		KpisPath: getEnvOrDefault("API_KPIS_PATH", "/api/kpis"),
		Timeout:  getEnvDurationOrDefault("API_TIMEOUT", 0),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadPageConfig() *PageConfig {
	return &PageConfig{
		IdleTTL:      getEnvDurationOrDefault("PAGE_IDLE_TTL", 10*time.Minute),
		PollInterval: getEnvDurationOrDefault("UI_POLL_INTERVAL", time.Second),
	}
}

func loadFixtureConfig() *FixtureConfig {
	return &FixtureConfig{
		Port:        getEnvOrDefault("FIXTURE_PORT", "8000"),
		ChartsDir:   getEnvOrDefault("FIXTURE_CHARTS_DIR", ""),
		MetricsFile: getEnvOrDefault("FIXTURE_METRICS_XLSX", ""),
	}
}

func validateConfig(config *Config) error {
	u, err := url.Parse(config.Backend.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.ConfigInvalid("API_BASE_URL must be an absolute http(s) URL, got " + strconv.Quote(config.Backend.BaseURL))
	}
	if !strings.HasPrefix(config.Backend.KpisPath, "/") {
		return errors.ConfigInvalid("API_KPIS_PATH must start with /")
	}
	if config.Backend.Timeout < 0 {
		return errors.ConfigInvalid("API_TIMEOUT must not be negative")
	}
	if config.Pages.IdleTTL <= 0 {
		return errors.ConfigInvalid("PAGE_IDLE_TTL must be positive")
	}
	if config.Pages.PollInterval <= 0 {
		return errors.ConfigInvalid("UI_POLL_INTERVAL must be positive")
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
