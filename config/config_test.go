package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jefftune/tune-reporting-go/service"
)

func validConfig() *Config {
	return &Config{
		API: APIConfig{
			Host: service.DefaultAPIHost,
		},
		Auth: AuthConfig{
			Type: service.AuthTypeAPIKey,
			Key:  "valid-api-key",
		},
		Export: ExportConfig{
			PollIntervalSeconds: 10,
			PollLimit:           60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidateAuth(t *testing.T) {
	tests := []struct {
		name     string
		authType string
		authKey  string
		wantErr  bool
	}{
		{
			name:     "Valid api_key auth",
			authType: "api_key",
			authKey:  "valid-api-key",
			wantErr:  false,
		},
		{
			name:     "Valid session_token auth",
			authType: "session_token",
			authKey:  "valid-session-token",
			wantErr:  false,
		},
		{
			name:     "Invalid auth type",
			authType: "oauth",
			authKey:  "valid-api-key",
			wantErr:  true,
		},
		{
			name:     "Missing key",
			authType: "api_key",
			authKey:  "",
			wantErr:  true,
		},
		{
			name:     "Placeholder key",
			authType: "api_key",
			authKey:  "your-api-key-here",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Auth.Type = tt.authType
			cfg.Auth.Key = tt.authKey

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateLogging(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{"Valid debug console", "debug", "console", false},
		{"Valid error json", "error", "json", false},
		{"Invalid level", "trace", "console", true},
		{"Invalid format", "info", "logfmt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logging.Level = tt.level
			cfg.Logging.Format = tt.format

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePolling(t *testing.T) {
	cfg := validConfig()
	cfg.Export.PollIntervalSeconds = 0
	if err := validate(cfg); err == nil {
		t.Error("expected error for zero poll interval")
	}

	cfg = validConfig()
	cfg.Export.PollLimit = -1
	if err := validate(cfg); err == nil {
		t.Error("expected error for negative poll limit")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "auth:\n  key: valid-api-key\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.Host != service.DefaultAPIHost {
		t.Errorf("api.host default = %q", cfg.API.Host)
	}
	if cfg.Auth.Type != service.AuthTypeAPIKey {
		t.Errorf("auth.type default = %q", cfg.Auth.Type)
	}
	if cfg.Export.PollIntervalSeconds != 10 || cfg.Export.PollLimit != 60 {
		t.Errorf("polling defaults = %d/%d", cfg.Export.PollIntervalSeconds, cfg.Export.PollLimit)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("logging defaults = %q/%q", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
