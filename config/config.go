package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/jefftune/tune-reporting-go/service"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".tune-reporting"))
		}

		// Check /etc
		v.AddConfigPath("/etc/tune-reporting/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.host", service.DefaultAPIHost)

	// Auth defaults
	v.SetDefault("auth.type", service.AuthTypeAPIKey)

	// Export polling defaults
	v.SetDefault("export.poll_interval_seconds", 10)
	v.SetDefault("export.poll_limit", 60)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.Host == "" {
		return fmt.Errorf("api.host is required")
	}

	if cfg.Auth.Type != service.AuthTypeAPIKey && cfg.Auth.Type != service.AuthTypeSessionToken {
		return fmt.Errorf("auth.type must be %q or %q", service.AuthTypeAPIKey, service.AuthTypeSessionToken)
	}

	if cfg.Auth.Key == "" || cfg.Auth.Key == "your-api-key-here" {
		return fmt.Errorf("auth.key must be set to a valid credential")
	}

	if cfg.Export.PollIntervalSeconds <= 0 {
		return fmt.Errorf("export.poll_interval_seconds must be positive")
	}
	if cfg.Export.PollLimit <= 0 {
		return fmt.Errorf("export.poll_limit must be positive")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
