package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"go-insight-studio/pkg/validation"
)

// DefaultPredictionAPIBaseURL is the local development address of the prediction backend
const DefaultPredictionAPIBaseURL = "http://localhost:8000"

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64

	// PredictionAPIBaseURL is read once at startup, without a trailing slash
	PredictionAPIBaseURL string
	SessionTTL           time.Duration
	CORSAllowedOrigins   []string

	ReportStore          string
	AzureStorageAccount  string
	AzureStorageKey      string
	AzureReportContainer string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// LoadFromEnv reads the configuration from the environment, after loading a
// .env file from the working directory when one exists.
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	// Set defaults
	cfg := &Config{
		Host:                 getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                 getEnvOrDefault("PORT", "8080"),
		RequestTimeout:       parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		MaxRequestBodySize:   parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		PredictionAPIBaseURL: NormalizeBaseURL(getEnvOrDefault("PREDICTION_API_BASE_URL", DefaultPredictionAPIBaseURL)),
		SessionTTL:           parseDurationOrDefault("SESSION_TTL", 30*time.Minute),
		CORSAllowedOrigins:   parseListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ReportStore:          strings.ToLower(getEnvOrDefault("REPORT_STORE", "memory")),
		AzureStorageAccount:  os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureStorageKey:      os.Getenv("AZURE_STORAGE_KEY"),
		AzureReportContainer: getEnvOrDefault("AZURE_REPORT_CONTAINER", "reports"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.SessionTTL <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, session=%s)", c.RequestTimeout, c.SessionTTL)
	}

	urls := validation.NewURLValidator()
	if err := urls.ValidateBaseURL(c.PredictionAPIBaseURL); err != nil {
		return fmt.Errorf("invalid PREDICTION_API_BASE_URL %q: %w", c.PredictionAPIBaseURL, err)
	}
	for _, origin := range c.CORSAllowedOrigins {
		if err := urls.ValidateOrigin(origin); err != nil {
			return fmt.Errorf("invalid CORS_ALLOWED_ORIGINS entry %q: %w", origin, err)
		}
	}

	switch c.ReportStore {
	case "memory", "none":
	case "azure":
		if c.AzureStorageAccount == "" || c.AzureStorageKey == "" {
			return fmt.Errorf("REPORT_STORE=azure requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
	default:
		return fmt.Errorf("invalid REPORT_STORE: %q", c.ReportStore)
	}
	return nil
}

// NormalizeBaseURL trims whitespace and a single trailing slash
func NormalizeBaseURL(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), "/")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
