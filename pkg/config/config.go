package config

import (
	"fmt"
	"os"
	"path/filepath"

	"encoding/json"
)

// Config represents the office manager configuration
type Config struct {
	Calendar CalendarConfig `json:"calendar"`
	Database DatabaseConfig `json:"database"`
	Model    ModelConfig    `json:"model"`
	Server   ServerConfig   `json:"server"`
}

// CalendarConfig contains settings for the external booking service
type CalendarConfig struct {
	BaseURL string `json:"base_url"`
	// TimeZone is sent verbatim on every booking and slots request.
	// Start times are never converted; callers supply instants the
	// service accepts.
	TimeZone               string `json:"time_zone"`
	SlotsTimeoutSeconds    int    `json:"slots_timeout_seconds"`
	DefaultDurationMinutes int    `json:"default_duration_minutes"`
}

// DatabaseConfig contains employee directory database settings
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"ssl_mode"`
}

// ModelConfig contains settings for the chat model backend
type ModelConfig struct {
	BaseURL        string  `json:"base_url"`
	Name           string  `json:"name"`
	APIKeyEnv      string  `json:"api_key_env"`
	Temperature    float64 `json:"temperature"`
	MaxTokens      int     `json:"max_tokens"`
	TimeoutSeconds int     `json:"timeout_seconds"`
}

// ServerConfig contains HTTP bridge settings
type ServerConfig struct {
	Addr string `json:"addr"`
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadDefault attempts to load .officemgr.json from current directory or home
func LoadDefault() (*Config, error) {
	if _, err := os.Stat(".officemgr.json"); err == nil {
		return Load(".officemgr.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homePath := filepath.Join(home, ".officemgr.json")
		if _, err := os.Stat(homePath); err == nil {
			return Load(homePath)
		}
	}

	// No config file; run on defaults
	cfg := &Config{}
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Calendar.BaseURL == "" {
		c.Calendar.BaseURL = os.Getenv("CALCOM_HOST")
	}
	if c.Calendar.BaseURL == "" {
		c.Calendar.BaseURL = "https://api.cal.com"
	}
	if c.Calendar.TimeZone == "" {
		c.Calendar.TimeZone = "Europe/Moscow"
	}
	if c.Calendar.SlotsTimeoutSeconds == 0 {
		c.Calendar.SlotsTimeoutSeconds = 10
	}
	if c.Calendar.DefaultDurationMinutes == 0 {
		c.Calendar.DefaultDurationMinutes = 60
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "postgres"
	}
	if c.Database.Database == "" {
		c.Database.Database = "office_manager"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Model.BaseURL == "" {
		c.Model.BaseURL = "http://localhost:11434"
	}
	if c.Model.APIKeyEnv == "" {
		c.Model.APIKeyEnv = "AI_API_KEY"
	}
	if c.Model.Temperature == 0 {
		c.Model.Temperature = 0.1
	}
	if c.Model.MaxTokens == 0 {
		c.Model.MaxTokens = 10000
	}
	if c.Model.TimeoutSeconds == 0 {
		c.Model.TimeoutSeconds = 30
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8007"
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Calendar.SlotsTimeoutSeconds < 0 {
		return fmt.Errorf("calendar.slots_timeout_seconds must not be negative")
	}
	if c.Calendar.DefaultDurationMinutes < 0 {
		return fmt.Errorf("calendar.default_duration_minutes must not be negative")
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port out of range: %d", c.Database.Port)
	}
	return nil
}
