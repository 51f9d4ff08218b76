package config

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Export  ExportConfig  `mapstructure:"export"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds reporting API connection details
type APIConfig struct {
	Host string `mapstructure:"host"`
}

// AuthConfig holds the credential the client authenticates with. Type is
// either "api_key" or "session_token".
type AuthConfig struct {
	Type string `mapstructure:"type"`
	Key  string `mapstructure:"key"`
}

// ExportConfig contains export job polling settings
type ExportConfig struct {
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds"`
	PollLimit           int `mapstructure:"poll_limit"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
