package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Card layouts for the daily team view.
const (
	LayoutTaskBreakdownFirst = "task-breakdown-first"
	LayoutCheckoutFirst      = "checkout-first"
)

// What deleting a goal in the planner does to its tasks.
const (
	DeleteKeep     = "keep"
	DeleteUnassign = "unassign"
	DeleteCascade  = "cascade"
)

// Config holds user preferences
type Config struct {
	ServerURL     string `yaml:"server_url" json:"server_url"`         // API base URL
	ConfirmDelete bool   `yaml:"confirm_delete" json:"confirm_delete"` // Ask before deleting goals in the planner
	Offline       bool   `yaml:"offline" json:"offline"`               // Serve bundled mock data instead of calling the API
	CardLayout    string `yaml:"card_layout" json:"card_layout"`       // Daily team card layout
	DeletePolicy  string `yaml:"delete_policy" json:"delete_policy"`   // keep, unassign or cascade a deleted goal's tasks

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// Dir returns ~/.teamplan
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".teamplan"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	logPath := ""
	if dir, err := Dir(); err == nil {
		logPath = filepath.Join(dir, "logs", "teamplan.log")
	}

	return &Config{
		ServerURL:     getEnv("TEAMPLAN_SERVER_URL", "http://localhost:8080"),
		ConfirmDelete: true,
		Offline:       getEnv("TEAMPLAN_OFFLINE", "false") == "true",
		CardLayout:    LayoutTaskBreakdownFirst,
		DeletePolicy:  DeleteKeep,
		LogLevel:      getEnv("TEAMPLAN_LOG_LEVEL", "INFO"),
		LogFile:       getEnv("TEAMPLAN_LOG_FILE", logPath),
		LogConsole:    getEnv("TEAMPLAN_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Path returns the location of config.yaml
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads config from ~/.teamplan/config.yaml
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.CardLayout {
	case "":
		c.CardLayout = LayoutTaskBreakdownFirst
	case LayoutTaskBreakdownFirst, LayoutCheckoutFirst:
	default:
		return fmt.Errorf("invalid card_layout %q", c.CardLayout)
	}
	switch c.DeletePolicy {
	case "":
		c.DeletePolicy = DeleteKeep
	case DeleteKeep, DeleteUnassign, DeleteCascade:
	default:
		return fmt.Errorf("invalid delete_policy %q", c.DeletePolicy)
	}
	c.ServerURL = strings.TrimRight(c.ServerURL, "/")
	return nil
}

// Save saves config to ~/.teamplan/config.yaml
func (c *Config) Save() error {
	configDir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
