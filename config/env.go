package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL     = "http://localhost:3000"
	DefaultAPIVersion = "v1"
	DefaultTimeout    = 30 * time.Second

	EnvAPIURL     = "NEXT_PUBLIC_API_URL"
	EnvAPIVersion = "NEXT_PUBLIC_API_VERSION"
)

// Endpoints maps each remote operation to its path below /api/{version}.
type Endpoints struct {
	GeneratePassword string
	ValidatePassword string
	EncryptText      string
	DecryptText      string
	Statistics       string
}

// DefaultEndpoints returns the FortressGuard endpoint paths.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		GeneratePassword: "/generate-password",
		ValidatePassword: "/validate-password",
		EncryptText:      "/encrypt-text",
		DecryptText:      "/decrypt-text",
		Statistics:       "/statistics",
	}
}

// Paths returns the endpoint paths in declaration order.
func (e Endpoints) Paths() []string {
	return []string{e.GeneratePassword, e.ValidatePassword, e.EncryptText, e.DecryptText, e.Statistics}
}

// Has reports whether path is one of the configured endpoints.
func (e Endpoints) Has(path string) bool {
	if path == "" {
		return false
	}
	for _, p := range e.Paths() {
		if p == path {
			return true
		}
	}
	return false
}

// APIConfig locates the remote FortressGuard API. It is immutable once
// built; pass it by value.
type APIConfig struct {
	BaseURL    string
	APIVersion string
	Endpoints  Endpoints
	Timeout    time.Duration
}

// NewAPIConfig builds an APIConfig, substituting defaults for empty values.
// Trailing slashes on baseURL and slashes around version are trimmed so
// BuildAPIURL never produces "//".
func NewAPIConfig(baseURL, version string, timeout time.Duration) APIConfig {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	version = strings.Trim(strings.TrimSpace(version), "/")
	if version == "" {
		version = DefaultAPIVersion
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return APIConfig{
		BaseURL:    baseURL,
		APIVersion: version,
		Endpoints:  DefaultEndpoints(),
		Timeout:    timeout,
	}
}

// DefaultAPIConfig targets a local API at http://localhost:3000/api/v1.
func DefaultAPIConfig() APIConfig {
	return NewAPIConfig("", "", 0)
}

// BuildAPIURL joins base URL, "/api/", version and endpoint. endpoint is
// expected to start with "/".
func (c APIConfig) BuildAPIURL(endpoint string) string {
	return c.BaseURL + "/api/" + c.APIVersion + endpoint
}

// EnvSource resolves environment variables from the process environment
// layered over zero or more dotenv files. The process environment is never
// modified.
type EnvSource struct {
	// Files are read in order; later files override earlier ones.
	// Missing files are skipped.
	Files []string
	// Lookup reads the process environment. Defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Load merges the dotenv files and returns a getter that prefers the
// process environment. Empty values count as unset.
func (s EnvSource) Load() (func(string) string, error) {
	fileVars := map[string]string{}
	for _, file := range s.Files {
		vars, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read env file %s: %w", file, err)
		}
		for k, v := range vars {
			fileVars[k] = v
		}
	}

	lookup := s.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	return func(key string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fileVars[key]
	}, nil
}

// ResolveAPIConfig layers, lowest first: defaults, the project api section,
// env files, the process environment.
func ResolveAPIConfig(project *ProjectConfig, src EnvSource) (APIConfig, error) {
	if project == nil {
		project = DefaultProjectConfig()
	}

	getenv, err := src.Load()
	if err != nil {
		return APIConfig{}, err
	}

	baseURL := project.API.BaseURL
	if v := getenv(EnvAPIURL); v != "" {
		baseURL = v
	}
	version := project.API.Version
	if v := getenv(EnvAPIVersion); v != "" {
		version = v
	}

	timeout := time.Duration(project.API.TimeoutMS) * time.Millisecond
	return NewAPIConfig(baseURL, version, timeout), nil
}
