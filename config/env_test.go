package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestBuildAPIURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		version  string
		endpoint string
		expected string
	}{
		{"defaults", "", "", "/statistics", "http://localhost:3000/api/v1/statistics"},
		{"custom", "https://api.example.com", "v2", "/encrypt-text", "https://api.example.com/api/v2/encrypt-text"},
		{"trailing slash trimmed", "https://api.example.com/", "v1", "/statistics", "https://api.example.com/api/v1/statistics"},
		{"version slashes trimmed", "http://h", "/v3/", "/decrypt-text", "http://h/api/v3/decrypt-text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewAPIConfig(tt.baseURL, tt.version, 0)
			if got := cfg.BuildAPIURL(tt.endpoint); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestDefaultAPIConfig(t *testing.T) {
	cfg := DefaultAPIConfig()

	if cfg.Timeout != 30*time.Second {
		t.Errorf("Expected timeout 30s, got %v", cfg.Timeout)
	}
	if cfg.Endpoints.GeneratePassword != "/generate-password" {
		t.Errorf("Expected /generate-password, got %s", cfg.Endpoints.GeneratePassword)
	}
	if len(cfg.Endpoints.Paths()) != 5 {
		t.Errorf("Expected 5 endpoints, got %d", len(cfg.Endpoints.Paths()))
	}
	if !cfg.Endpoints.Has("/validate-password") {
		t.Error("Expected /validate-password to be a known endpoint")
	}
	if cfg.Endpoints.Has("/unknown") || cfg.Endpoints.Has("") {
		t.Error("Expected unknown and empty endpoints to be rejected")
	}
}

func TestResolveAPIConfigPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")
	if err := os.WriteFile(envFile, []byte("NEXT_PUBLIC_API_URL=http://from-file:4000\nNEXT_PUBLIC_API_VERSION=v9\n"), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	project := DefaultProjectConfig()
	project.API.BaseURL = "http://from-yaml:5000"
	project.API.Version = "v5"
	project.API.TimeoutMS = 1500

	tests := []struct {
		name            string
		files           []string
		env             map[string]string
		expectedBaseURL string
		expectedVersion string
	}{
		{
			name:            "yaml only",
			env:             map[string]string{},
			expectedBaseURL: "http://from-yaml:5000",
			expectedVersion: "v5",
		},
		{
			name:            "env file over yaml",
			files:           []string{envFile},
			env:             map[string]string{},
			expectedBaseURL: "http://from-file:4000",
			expectedVersion: "v9",
		},
		{
			name:            "process env over env file",
			files:           []string{envFile},
			env:             map[string]string{EnvAPIURL: "http://from-env:6000"},
			expectedBaseURL: "http://from-env:6000",
			expectedVersion: "v9",
		},
		{
			name:            "empty process env falls through",
			files:           []string{envFile},
			env:             map[string]string{EnvAPIURL: "", EnvAPIVersion: ""},
			expectedBaseURL: "http://from-file:4000",
			expectedVersion: "v9",
		},
		{
			name:            "missing env file is skipped",
			files:           []string{filepath.Join(tmpDir, "missing.env")},
			env:             map[string]string{},
			expectedBaseURL: "http://from-yaml:5000",
			expectedVersion: "v5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ResolveAPIConfig(project, EnvSource{Files: tt.files, Lookup: lookupFrom(tt.env)})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if cfg.BaseURL != tt.expectedBaseURL {
				t.Errorf("Expected base URL %s, got %s", tt.expectedBaseURL, cfg.BaseURL)
			}
			if cfg.APIVersion != tt.expectedVersion {
				t.Errorf("Expected version %s, got %s", tt.expectedVersion, cfg.APIVersion)
			}
			if cfg.Timeout != 1500*time.Millisecond {
				t.Errorf("Expected timeout 1.5s, got %v", cfg.Timeout)
			}
		})
	}
}

func TestResolveAPIConfigDefaults(t *testing.T) {
	cfg, err := ResolveAPIConfig(nil, EnvSource{Lookup: lookupFrom(map[string]string{})})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.BaseURL != DefaultAPIURL || cfg.APIVersion != DefaultAPIVersion {
		t.Errorf("Expected defaults, got %s %s", cfg.BaseURL, cfg.APIVersion)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Expected default timeout, got %v", cfg.Timeout)
	}
}

func TestEnvSourceMalformedFile(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, "not-a-file")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	if _, err := (EnvSource{Files: []string{dir}}).Load(); err == nil {
		t.Error("Expected error when an env file path is a directory")
	}
}
