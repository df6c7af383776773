package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Browser     BrowserConfig
	Log         LogConfig
	Diagnostics DiagnosticsConfig
	OTLP        OTLPConfig
}

type BrowserConfig struct {
	CatalogueFile  string
	PageSize       int
	SearchDebounce time.Duration
}

type LogConfig struct {
	File  string
	Level string
}

// DiagnosticsConfig controls the local health/metrics endpoint. An empty
// Port disables it.
type DiagnosticsConfig struct {
	Host string
	Port string
}

// Enabled reports whether the diagnostics endpoint should be started.
func (c DiagnosticsConfig) Enabled() bool {
	return c.Port != ""
}

type OTLPConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Environment string
}

// LoadConfig loads configuration from environment variables, after reading
// a .env file if one exists. Values that fail to parse keep their defaults
// and are reported in warnings.
func LoadConfig() (cfg *Config, warnings []string) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		warnings = append(warnings, fmt.Sprintf("failed to load .env: %v", err))
	}

	cfg = &Config{
		Browser: BrowserConfig{
			CatalogueFile:  getEnv("CATALOGUE_FILE", ""),
			PageSize:       getEnvInt("PAGE_SIZE", 10, &warnings),
			SearchDebounce: getEnvDuration("SEARCH_DEBOUNCE", 300*time.Millisecond, &warnings),
		},
		Log: LogConfig{
			File:  getEnv("LOG_FILE", "inventory-browser.log"),
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Diagnostics: DiagnosticsConfig{
			Host: getEnv("DIAGNOSTICS_HOST", "127.0.0.1"),
			Port: getEnv("DIAGNOSTICS_PORT", ""),
		},
		OTLP: OTLPConfig{
			Enabled:     getEnvBool("OTEL_ENABLED", false, &warnings),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "inventory-browser"),
			Environment: getEnv("OTEL_ENVIRONMENT", "development"),
		},
	}

	if cfg.Browser.PageSize < 1 {
		warnings = append(warnings, fmt.Sprintf("PAGE_SIZE must be positive, got %d", cfg.Browser.PageSize))
		cfg.Browser.PageSize = 10
	}
	if cfg.Browser.SearchDebounce < 0 {
		warnings = append(warnings, fmt.Sprintf("SEARCH_DEBOUNCE must not be negative, got %s", cfg.Browser.SearchDebounce))
		cfg.Browser.SearchDebounce = 300 * time.Millisecond
	}

	return cfg, warnings
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int, warnings *[]string) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("invalid %s %q, using %d", key, value, defaultValue))
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration, warnings *[]string) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("invalid %s %q, using %s", key, value, defaultValue))
		return defaultValue
	}
	return d
}

func getEnvBool(key string, defaultValue bool, warnings *[]string) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("invalid %s %q, using %t", key, value, defaultValue))
		return defaultValue
	}
	return b
}
