package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the project configuration file looked up by the CLI.
const DefaultConfigPath = "fortress.yaml"

// ValidRouters lists the HTTP routers the console server can mount on.
var ValidRouters = []string{"chi", "gin", "echo", "fiber", "stdlib"}

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error in field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

func (errs ValidationErrors) HasErrors() bool {
	return len(errs) > 0
}

// ConfigLoadOptions provides options for loading configuration
type ConfigLoadOptions struct {
	Path              string
	AllowMissing      bool
	ValidateStructure bool
	ApplyDefaults     bool
	Quiet             bool
}

// DefaultLoadOptions returns the options used by the CLI. A missing
// fortress.yaml is not an error: every setting has a default.
func DefaultLoadOptions() ConfigLoadOptions {
	return ConfigLoadOptions{
		Path:              DefaultConfigPath,
		AllowMissing:      true,
		ValidateStructure: true,
		ApplyDefaults:     true,
		Quiet:             false,
	}
}

// ConfigManager handles configuration loading, validation, and management
type ConfigManager struct {
	options ConfigLoadOptions
}

// NewConfigManager creates a new configuration manager
func NewConfigManager(options ConfigLoadOptions) *ConfigManager {
	return &ConfigManager{
		options: options,
	}
}

// LoadConfig loads the file named in the manager's options.
func (cm *ConfigManager) LoadConfig() (*ProjectConfig, error) {
	return cm.LoadConfigFromPath(cm.options.Path)
}

// LoadConfigFromPath loads configuration from a specific path
func (cm *ConfigManager) LoadConfigFromPath(path string) (*ProjectConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if cm.options.AllowMissing {
			if !cm.options.Quiet {
				fmt.Printf("⚠️  Configuration file not found at %s, using defaults\n", path)
			}
			return DefaultProjectConfig(), nil
		}
		return nil, fmt.Errorf("configuration file not found: %s\n\nRun 'fortress config init' to create one", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	var config ProjectConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w\n\nPlease check your YAML syntax", path, err)
	}

	if cm.options.ApplyDefaults {
		cm.applyDefaults(&config)
	}

	if cm.options.ValidateStructure {
		if errs := cm.validateConfig(&config); errs.HasErrors() {
			return nil, fmt.Errorf("configuration validation failed:\n%s", cm.formatValidationErrors(errs))
		}
	}

	return &config, nil
}

func (cm *ConfigManager) validateConfig(config *ProjectConfig) ValidationErrors {
	var errors ValidationErrors

	if config.Name == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Value:   config.Name,
			Message: "project name cannot be empty",
		})
	}

	if config.Port <= 0 || config.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "port",
			Value:   config.Port,
			Message: "port must be between 1 and 65535",
		})
	}

	if config.Router == "" {
		errors = append(errors, ValidationError{
			Field:   "router",
			Value:   config.Router,
			Message: "router cannot be empty",
		})
	} else if !contains(ValidRouters, config.Router) {
		errors = append(errors, ValidationError{
			Field:   "router",
			Value:   config.Router,
			Message: fmt.Sprintf("unsupported router '%s', valid options are: %s", config.Router, strings.Join(ValidRouters, ", ")),
		})
	}

	if config.API.BaseURL != "" && !strings.HasPrefix(config.API.BaseURL, "http://") && !strings.HasPrefix(config.API.BaseURL, "https://") {
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Value:   config.API.BaseURL,
			Message: "base URL must start with http:// or https://",
		})
	}

	if config.API.TimeoutMS < 0 {
		errors = append(errors, ValidationError{
			Field:   "api.timeout_ms",
			Value:   config.API.TimeoutMS,
			Message: "timeout cannot be negative",
		})
	}

	if config.Console.SessionTTLMinutes < 0 {
		errors = append(errors, ValidationError{
			Field:   "console.session_ttl_minutes",
			Value:   config.Console.SessionTTLMinutes,
			Message: "session TTL cannot be negative",
		})
	}

	if config.Console.MaxSessions < 0 {
		errors = append(errors, ValidationError{
			Field:   "console.max_sessions",
			Value:   config.Console.MaxSessions,
			Message: "max sessions cannot be negative",
		})
	}

	if config.Logging.Level != "" && !contains(validLogLevels, config.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   config.Logging.Level,
			Message: fmt.Sprintf("unsupported log level '%s', valid options are: %s", config.Logging.Level, strings.Join(validLogLevels, ", ")),
		})
	}

	if config.Logging.Format != "" && !contains(validLogFormats, config.Logging.Format) {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Value:   config.Logging.Format,
			Message: fmt.Sprintf("unsupported log format '%s', valid options are: %s", config.Logging.Format, strings.Join(validLogFormats, ", ")),
		})
	}

	return errors
}

func (cm *ConfigManager) applyDefaults(config *ProjectConfig) {
	defaults := DefaultProjectConfig()

	if config.Name == "" {
		config.Name = defaults.Name
	}
	if config.Host == "" {
		config.Host = defaults.Host
	}
	if config.Port == 0 {
		config.Port = defaults.Port
	}
	if config.Router == "" {
		config.Router = defaults.Router
	}

	// api.base_url and api.version stay empty so the environment layer can
	// still supply them; APIConfig fills the final defaults.
	if config.API.TimeoutMS == 0 {
		config.API.TimeoutMS = defaults.API.TimeoutMS
	}

	if config.Console.SessionTTLMinutes == 0 {
		config.Console.SessionTTLMinutes = defaults.Console.SessionTTLMinutes
	}
	if config.Console.MaxSessions == 0 {
		config.Console.MaxSessions = defaults.Console.MaxSessions
	}
	if config.Console.Docs == nil {
		config.Console.Docs = defaults.Console.Docs
	}

	if config.Logging.Level == "" {
		config.Logging.Level = defaults.Logging.Level
	}
	if config.Logging.Format == "" {
		config.Logging.Format = defaults.Logging.Format
	}
}

func (cm *ConfigManager) formatValidationErrors(errors ValidationErrors) string {
	var lines []string
	for i, err := range errors {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}
	return strings.Join(lines, "\n")
}

// DefaultProjectConfig returns the configuration used when no file exists.
func DefaultProjectConfig() *ProjectConfig {
	docs := true
	return &ProjectConfig{
		Name:   "fortressguard",
		Host:   "localhost",
		Port:   8080,
		Router: "chi",
		API: APISection{
			TimeoutMS: int(DefaultTimeout.Milliseconds()),
		},
		Console: ConsoleSection{
			SessionTTLMinutes: 30,
			MaxSessions:       1000,
			Docs:              &docs,
		},
		Logging: LoggingSection{
			Level:  "info",
			Format: "text",
		},
	}
}

// ValidateConfigFile validates a configuration file the way the CLI loads
// it: omitted settings take their defaults, only the values present are
// checked.
func ValidateConfigFile(path string) error {
	cm := NewConfigManager(ConfigLoadOptions{
		Path:              path,
		AllowMissing:      false,
		ValidateStructure: true,
		ApplyDefaults:     true,
		Quiet:             true,
	})

	_, err := cm.LoadConfigFromPath(path)
	return err
}

// WriteConfig marshals cfg to YAML at path. Existing files are only
// replaced when force is set.
func WriteConfig(path string, cfg *ProjectConfig, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s\nUse --force to overwrite", path)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}

// GetConfigInfo returns information about the configuration at path
func GetConfigInfo(path string) (*ConfigInfo, error) {
	options := DefaultLoadOptions()
	options.Quiet = true
	cm := NewConfigManager(options)
	config, err := cm.LoadConfigFromPath(path)
	if err != nil {
		return nil, err
	}

	absPath, _ := filepath.Abs(path)

	return &ConfigInfo{
		Path:        absPath,
		ProjectName: config.Name,
		Address:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Router:      config.Router,
		APIBaseURL:  config.API.BaseURL,
		APIVersion:  config.API.Version,
		TimeoutMS:   config.API.TimeoutMS,
		EnvFiles:    config.EnvFiles,
		LogLevel:    config.Logging.Level,
		DocsEnabled: config.Console.DocsEnabled(),
	}, nil
}

// ConfigInfo contains summary information about a configuration
type ConfigInfo struct {
	Path        string
	ProjectName string
	Address     string
	Router      string
	APIBaseURL  string
	APIVersion  string
	TimeoutMS   int
	EnvFiles    []string
	LogLevel    string
	DocsEnabled bool
}

// String returns a formatted string representation of config info
func (info *ConfigInfo) String() string {
	orDefault := func(value, fallback string) string {
		if value == "" {
			return fallback + " (default)"
		}
		return value
	}

	var lines []string
	lines = append(lines, "📋 Configuration Summary")
	lines = append(lines, fmt.Sprintf("   Path: %s", info.Path))
	lines = append(lines, fmt.Sprintf("   Project: %s", info.ProjectName))
	lines = append(lines, fmt.Sprintf("   Console: http://%s (router: %s)", info.Address, info.Router))
	lines = append(lines, fmt.Sprintf("   API: %s", orDefault(info.APIBaseURL, DefaultAPIURL)))
	lines = append(lines, fmt.Sprintf("   API Version: %s", orDefault(info.APIVersion, DefaultAPIVersion)))
	lines = append(lines, fmt.Sprintf("   Timeout: %dms", info.TimeoutMS))
	if len(info.EnvFiles) > 0 {
		lines = append(lines, fmt.Sprintf("   Env Files: %s", strings.Join(info.EnvFiles, ", ")))
	}
	lines = append(lines, fmt.Sprintf("   Log Level: %s", info.LogLevel))
	lines = append(lines, fmt.Sprintf("   API Docs: %t", info.DocsEnabled))

	return strings.Join(lines, "\n")
}

// LoadConfigQuiet loads fortress.yaml without warnings or messages
func LoadConfigQuiet(path string) (*ProjectConfig, error) {
	options := DefaultLoadOptions()
	options.Path = path
	options.Quiet = true

	return NewConfigManager(options).LoadConfig()
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type ProjectConfig struct {
	Name     string         `yaml:"name"`
	Host     string         `yaml:"host"`
	Port     int            `yaml:"port"`
	Router   string         `yaml:"router"` // "chi", "gin", "echo", "fiber", "stdlib"
	API      APISection     `yaml:"api"`
	Console  ConsoleSection `yaml:"console"`
	Logging  LoggingSection `yaml:"logging"`
	EnvFiles []string       `yaml:"env_files,omitempty"`
}

// APISection points the console at a FortressGuard API. Empty values defer
// to NEXT_PUBLIC_API_URL / NEXT_PUBLIC_API_VERSION and then to defaults.
type APISection struct {
	BaseURL   string `yaml:"base_url,omitempty"`
	Version   string `yaml:"version,omitempty"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

type ConsoleSection struct {
	SessionTTLMinutes int   `yaml:"session_ttl_minutes"`
	MaxSessions       int   `yaml:"max_sessions"`
	Docs              *bool `yaml:"docs,omitempty"`
}

// DocsEnabled reports whether the interactive API docs are served.
func (c ConsoleSection) DocsEnabled() bool {
	return c.Docs == nil || *c.Docs
}

type LoggingSection struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}
