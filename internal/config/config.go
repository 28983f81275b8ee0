package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds user preferences and credentials
type Config struct {
	// Clockify
	ClockifyAPIKey string `yaml:"clockify_api_key" json:"clockify_api_key"`
	WorkspaceID    string `yaml:"workspace_id" json:"workspace_id"`
	ProjectID      string `yaml:"project_id" json:"project_id"`

	// Default wall-clock times applied when an entry is created without
	// explicit start/end, in HH:MM.
	DefaultStartTime string `yaml:"default_start_time" json:"default_start_time"`
	DefaultEndTime   string `yaml:"default_end_time" json:"default_end_time"`

	// Jira (optional; the resolver falls back gracefully when unset)
	JiraBaseURL string `yaml:"jira_base_url" json:"jira_base_url"`
	JiraEmail   string `yaml:"jira_email" json:"jira_email"`
	JiraToken   string `yaml:"jira_token" json:"jira_token"`

	// Holiday calendar region (BR, US, GB, DE)
	HolidayRegion string `yaml:"holiday_region" json:"holiday_region"`

	// Where monthly reports are written
	ReportDir string `yaml:"report_dir" json:"report_dir"`

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// Dir returns the application data directory (~/.clockify-auto-fill).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".clockify-auto-fill"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dir, _ := Dir()
	logPath := ""
	reportDir := ""
	if dir != "" {
		logPath = filepath.Join(dir, "logs", "clockify-auto-fill.log")
		reportDir = filepath.Join(dir, "reports")
	}

	return &Config{
		DefaultStartTime: "09:00",
		DefaultEndTime:   "18:00",
		HolidayRegion:    "BR",
		ReportDir:        reportDir,
		LogLevel:         getEnv("CAF_LOG_LEVEL", "INFO"),
		LogFile:          getEnv("CAF_LOG_FILE", logPath),
		LogConsole:       getEnv("CAF_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads config from ~/.clockify-auto-fill/config.yaml
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}

	// Check if exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Return defaults if no config
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

	return cfg, nil
}

// Save saves config to ~/.clockify-auto-fill/config.yaml
func (c *Config) Save() error {
	configDir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The config holds credentials, keep it private to the user.
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
