package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the lumen CLI configuration.
type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Defaults   DefaultsConfig   `yaml:"defaults"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ConnectionConfig holds service credentials and endpoint settings.
type ConnectionConfig struct {
	BaseURL    string `yaml:"base_url"`
	ProjectID  string `yaml:"project_id"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// DefaultsConfig holds per-invocation defaults the flags fall back to.
type DefaultsConfig struct {
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
	TopK       int    `yaml:"top_k"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Connection.BaseURL == "" {
		c.Connection.BaseURL = "https://api.lumendb.io"
	}
	if c.Connection.TimeoutSec <= 0 {
		c.Connection.TimeoutSec = 30
	}
	if c.Defaults.Database == "" {
		c.Defaults.Database = "default"
	}
	if c.Defaults.TopK <= 0 {
		c.Defaults.TopK = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Connection.ProjectID == "" {
		return fmt.Errorf("connection.project_id is required")
	}
	if c.Connection.APIKey == "" {
		return fmt.Errorf("connection.api_key is required")
	}
	if !strings.HasPrefix(c.Connection.BaseURL, "http://") &&
		!strings.HasPrefix(c.Connection.BaseURL, "https://") {
		return fmt.Errorf("connection.base_url must start with http:// or https://, got %q", c.Connection.BaseURL)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
		// ok
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
