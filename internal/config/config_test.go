package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"HOST", "PORT", "PREDICTION_API_BASE_URL", "REPORT_STORE", "SESSION_TTL", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.PredictionAPIBaseURL != DefaultPredictionAPIBaseURL {
		t.Errorf("Expected default base URL, got %s", cfg.PredictionAPIBaseURL)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("Expected 30m session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.ReportStore != "memory" {
		t.Errorf("Expected memory report store, got %s", cfg.ReportStore)
	}
	if cfg.ServerAddress() != "0.0.0.0:8080" {
		t.Errorf("Unexpected server address %s", cfg.ServerAddress())
	}
}

func TestLoadFromEnv_TrailingSlashStripped(t *testing.T) {
	t.Setenv("PREDICTION_API_BASE_URL", "https://models.example.org/api/")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.PredictionAPIBaseURL != "https://models.example.org/api" {
		t.Errorf("Unexpected base URL %s", cfg.PredictionAPIBaseURL)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "99999"}},
		{"bad base url", map[string]string{"PREDICTION_API_BASE_URL": "localhost"}},
		{"base url with query", map[string]string{"PREDICTION_API_BASE_URL": "http://localhost:8000?x=1"}},
		{"bad origin", map[string]string{"CORS_ALLOWED_ORIGINS": "ftp://example.org"}},
		{"unknown report store", map[string]string{"REPORT_STORE": "s3"}},
		{"azure without credentials", map[string]string{"REPORT_STORE": "azure", "AZURE_STORAGE_ACCOUNT": "", "AZURE_STORAGE_KEY": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadFromEnv(); err == nil {
				t.Error("Expected configuration error")
			}
		})
	}
}

func TestParseListOrDefault(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://localhost:8080, ,http://127.0.0.1:8080 ")
	got := parseListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	if len(got) != 2 || got[0] != "http://localhost:8080" || got[1] != "http://127.0.0.1:8080" {
		t.Errorf("Unexpected origins %v", got)
	}
}
