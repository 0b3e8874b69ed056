package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds planner settings
type Config struct {
	DBDriver string `yaml:"db_driver" json:"db_driver"` // sqlite or postgres
	DBDSN    string `yaml:"db_dsn" json:"db_dsn"`       // File path for sqlite, URL for postgres

	Addr        string `yaml:"addr" json:"addr"`                 // HTTP listen address
	SessionDays int    `yaml:"session_days" json:"session_days"` // Bearer token lifetime

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging

	path string
}

// Dir returns the planner home directory (~/.planner)
func Dir() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		return ".planner"
	}
	return filepath.Join(home, ".planner")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	return &Config{
		DBDriver:    "sqlite",
		DBDSN:       filepath.Join(Dir(), "planner.db"),
		Addr:        ":8080",
		SessionDays: 30,
		LogLevel:    "INFO",
		LogFile:     filepath.Join(Dir(), "logs", "planner.log"),
		LogConsole:  false,
		path:        DefaultPath(),
	}
}

// SessionTTL returns the configured bearer token lifetime
func (c *Config) SessionTTL() time.Duration {
	days := c.SessionDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Load reads the YAML config at path (DefaultPath when empty), then applies
// environment overrides. A .env file in the working directory is loaded
// first; a missing file is not an error, and neither is a missing config.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = DefaultPath()
	}

	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PLANNER_DB_DRIVER"); v != "" {
		c.DBDriver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DBDSN = v
		if strings.HasPrefix(v, "postgres://") || strings.HasPrefix(v, "postgresql://") {
			c.DBDriver = "postgres"
		}
	}
	if v := os.Getenv("PLANNER_DB_DSN"); v != "" {
		c.DBDSN = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Addr = ":" + v
	}
	if v := os.Getenv("PLANNER_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("PLANNER_SESSION_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PLANNER_SESSION_DAYS %q: %w", v, err)
		}
		c.SessionDays = days
	}
	if v := os.Getenv("PLANNER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PLANNER_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("PLANNER_LOG_CONSOLE"); v != "" {
		c.LogConsole = v == "true" || v == "1"
	}
	return nil
}

// Save writes the config back to the file it was loaded from
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
