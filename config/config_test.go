package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 1313 {
		t.Errorf("Server.Port = %d, want 1313", cfg.Server.Port)
	}
	if cfg.Listening.MaxTokens != 300 {
		t.Errorf("Listening.MaxTokens = %d, want 300", cfg.Listening.MaxTokens)
	}
	if cfg.Exercises.DedupTTL != 24*time.Hour {
		t.Errorf("Exercises.DedupTTL = %s, want 24h", cfg.Exercises.DedupTTL)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("Redis.Addr = %q, want empty", cfg.Redis.Addr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"MONGO_URI", "GEMINI_API_KEY", "JWT_SECRET", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 8080
database:
  uri: mongodb://db:27017/test
redis:
  addr: redis:6379
gemini:
  apiKey: key
jwt:
  secret: s3cret
listening:
  maxTokens: 50
exercises:
  backoff: 2s
  dedupTTL: 90m
logLevel: debug
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.URI != "mongodb://db:27017/test" {
		t.Errorf("Database.URI = %q", cfg.Database.URI)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Listening.MaxTokens != 50 {
		t.Errorf("Listening.MaxTokens = %d, want 50", cfg.Listening.MaxTokens)
	}
	if cfg.Exercises.Backoff != 2*time.Second {
		t.Errorf("Exercises.Backoff = %s, want 2s", cfg.Exercises.Backoff)
	}
	if cfg.Exercises.DedupTTL != 90*time.Minute {
		t.Errorf("Exercises.DedupTTL = %s, want 90m", cfg.Exercises.DedupTTL)
	}
	// Unset fields keep defaults.
	if cfg.Exercises.BatchSize != 5 {
		t.Errorf("Exercises.BatchSize = %d, want default 5", cfg.Exercises.BatchSize)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Gemini.Model = %q, want default", cfg.Gemini.Model)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "jwt:\n  secret: from-file\n")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Errorf("JWT.Secret = %q, want from-env", cfg.JWT.Secret)
	}
	if cfg.Gemini.ApiKey != "env-key" {
		t.Errorf("Gemini.ApiKey = %q, want env-key", cfg.Gemini.ApiKey)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("LoadConfig() should fail for a missing file")
	}

	path := writeConfig(t, "server: [not, a, map")
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should fail for invalid yaml")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.JWT.Secret = "s"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad_port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"no_db", func(c *Config) { c.Database.URI = "" }, "database.uri"},
		{"no_secret", func(c *Config) { c.JWT.Secret = "" }, "jwt.secret"},
		{"bad_expiry", func(c *Config) { c.JWT.Expiry = 0 }, "jwt.expiry"},
		{"bad_tokens", func(c *Config) { c.Listening.MaxTokens = -1 }, "listening.maxTokens"},
		{"bad_batch", func(c *Config) { c.Exercises.BatchSize = 0 }, "exercises.batchSize"},
		{"bad_attempts", func(c *Config) { c.Exercises.MaxAttempts = 0 }, "exercises.maxAttempts"},
		{"bad_count", func(c *Config) { c.Exercises.MaxCount = 0 }, "exercises.maxCount"},
		{"bad_rate_window", func(c *Config) { c.Exercises.RateWindow = 0 }, "exercises.rateWindow"},
		{"bad_log_level", func(c *Config) { c.LogLevel = "verbose" }, "logLevel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
