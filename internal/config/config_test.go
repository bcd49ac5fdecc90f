package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  name: brandkit
  environment: production
  port: 9090
database:
  driver: sqlite
  filename: /tmp/brandkit.db
themes:
  migration_cron: "0 * * * *"
  default_font_pair: classic
  default_density: compact
`)
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), ".env"), []byte("APP_SECRET_KEY=s3cret\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("APP_SECRET_KEY", "")
	os.Unsetenv("APP_SECRET_KEY")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Port != 9090 {
		t.Fatalf("App.Port = %d, want 9090", cfg.App.Port)
	}
	if cfg.App.SecretKey != "s3cret" {
		t.Fatalf("App.SecretKey = %q, want value from .env", cfg.App.SecretKey)
	}
	if cfg.Themes.DefaultFontPair != "classic" || cfg.Themes.DefaultDensity != "compact" {
		t.Fatalf("Themes = %+v", cfg.Themes)
	}
	// Unset keys keep their defaults.
	if !cfg.Themes.DarkMode {
		t.Fatalf("Themes.DarkMode = false, want default true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "missing name", mutate: func(c *Config) { c.App.Name = "" }, wantErr: "Name"},
		{name: "bad port", mutate: func(c *Config) { c.App.Port = 70000 }, wantErr: "Port"},
		{name: "bad environment", mutate: func(c *Config) { c.App.Environment = "qa" }, wantErr: "Environment"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "turso" }, wantErr: "unsupported database driver"},
		{name: "sqlite without file", mutate: func(c *Config) { c.Database.Filename = "" }, wantErr: "filename"},
		{name: "bad cron", mutate: func(c *Config) { c.Themes.MigrationCron = "every minute" }, wantErr: "MigrationCron"},
		{name: "cron disabled", mutate: func(c *Config) { c.Themes.MigrationCron = "" }},
		{name: "cron descriptor", mutate: func(c *Config) { c.Themes.MigrationCron = "@hourly" }},
		{name: "unknown font pair", mutate: func(c *Config) { c.Themes.DefaultFontPair = "gothic" }, wantErr: "DefaultFontPair"},
		{name: "unknown density", mutate: func(c *Config) { c.Themes.DefaultDensity = "airy" }, wantErr: "DefaultDensity"},
		{name: "negative preview limit", mutate: func(c *Config) { c.Preview.MaxPerIP = -1 }, wantErr: "MaxPerIP"},
		{name: "metrics without endpoint", mutate: func(c *Config) { c.Features.EnableMetrics = true }, wantErr: "MetricsEndpoint"},
		{name: "metrics with endpoint", mutate: func(c *Config) {
			c.Features.EnableMetrics = true
			c.Features.MetricsEndpoint = "localhost:4317"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Load() error = nil, want error")
	}
}
