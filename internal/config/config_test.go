package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8081" {
		t.Errorf("Port = %s, want 8081", cfg.Port)
	}
	if cfg.SQLiteDBPath != "./data/finscope.db" {
		t.Errorf("SQLiteDBPath = %s", cfg.SQLiteDBPath)
	}
	if cfg.BalancePolicy != "exclude-pending-credit" {
		t.Errorf("BalancePolicy = %s", cfg.BalancePolicy)
	}
	if cfg.TokenLifetime != 24*time.Hour {
		t.Errorf("TokenLifetime = %v", cfg.TokenLifetime)
	}
	if cfg.AMQPURL != "" {
		t.Errorf("AMQP should be disabled by default, got %s", cfg.AMQPURL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("BALANCE_POLICY", "count-all")
	t.Setenv("TOKEN_LIFETIME", "2h")
	t.Setenv("CACHE_SIZE", "64")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %s, want 9000", cfg.Port)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret = %s", cfg.JWTSecret)
	}
	if cfg.BalancePolicy != "count-all" {
		t.Errorf("BalancePolicy = %s", cfg.BalancePolicy)
	}
	if cfg.TokenLifetime != 2*time.Hour {
		t.Errorf("TokenLifetime = %v", cfg.TokenLifetime)
	}
	if cfg.CacheSize != 64 {
		t.Errorf("CacheSize = %d", cfg.CacheSize)
	}
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := Load()
	cfg.JWTSecret = "test-secret"
	cfg.SQLiteDBPath = t.TempDir() + "/finscope.db"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Port = "http" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"bad policy", func(c *Config) { c.BalancePolicy = "maybe" }, "balance policy"},
		{"short token lifetime", func(c *Config) { c.TokenLifetime = time.Second }, "token lifetime"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }, "AMQP URL scheme"},
		{"amqp without queue", func(c *Config) { c.AMQPURL = "amqp://localhost"; c.AMQPQueue = "" }, "queue name"},
		{"zero cache", func(c *Config) { c.CacheSize = 0 }, "cache size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateExport(t *testing.T) {
	cfg := validConfig(t)
	cfg.AMQPURL = "amqp://localhost"
	cfg.GoogleSpreadsheetID = "sheet-id"
	cfg.GoogleOAuthClientJSON = `{"installed":{}}`
	cfg.GoogleOAuthTokenJSON = `{"access_token":"x"}`
	if err := cfg.ValidateExport(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.GoogleSpreadsheetID = ""
	if err := cfg.ValidateExport(); err == nil || !strings.Contains(err.Error(), "Spreadsheet ID") {
		t.Fatalf("error = %v, want missing spreadsheet id", err)
	}

	cfg = validConfig(t)
	if err := cfg.ValidateExport(); err == nil {
		t.Fatal("export validation should fail without AMQP and OAuth settings")
	}
}
