package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Port:         "8081",
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(t.TempDir(), "kopilka.db"),
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig(t).Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateMemoryBackendNeedsNoPath(t *testing.T) {
	cfg := validConfig(t)
	cfg.DataBackend = "memory"
	cfg.SQLiteDBPath = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("memory backend must not require a db path, got %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"non-numeric port", func(c *Config) { c.Port = "abc" }, "invalid port"},
		{"negative rate limit", func(c *Config) { c.RateLimitPerMinute = -1 }, "must not be negative"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "between 1 and 65535"},
		{"unknown backend", func(c *Config) { c.DataBackend = "postgres" }, "invalid data backend"},
		{"sqlite without path", func(c *Config) { c.SQLiteDBPath = "" }, "path cannot be empty"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost:5672" }, "invalid AMQP URL scheme"},
		{"amqp without exchange", func(c *Config) { c.AMQPURL = "amqp://localhost:5672"; c.AMQPExchange = "" }, "exchange name cannot be empty"},
		{"amqp without queue", func(c *Config) { c.AMQPURL = "amqp://localhost:5672"; c.AMQPExchange = "kopilka"; c.AMQPQueue = "" }, "queue name cannot be empty"},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"unknown log format", func(c *Config) { c.LogFormat = "json5" }, "invalid log format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig(t)
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Port = "abc"
	cfg.LogLevel = "trace"

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "invalid port") || !strings.Contains(msg, "invalid log level") {
		t.Fatalf("expected both errors reported, got %q", msg)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "RATE_LIMIT_PER_MINUTE", "DATA_BACKEND", "SQLITE_DB_PATH",
		"AMQP_URL", "AMQP_EXCHANGE", "AMQP_QUEUE",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8081" || cfg.DataBackend != "sqlite" || cfg.SQLiteDBPath != "./data/kopilka.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AMQPURL != "" || cfg.AMQPExchange != "kopilka" || cfg.AMQPQueue != "ledger_changes" {
		t.Fatalf("unexpected AMQP defaults: %+v", cfg)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Fatalf("unexpected logging defaults: %+v", cfg)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("LOG_FORMAT", "pretty")

	cfg := Load()
	if cfg.Port != "9000" || cfg.DataBackend != "memory" || cfg.LogFormat != "pretty" {
		t.Fatalf("environment not honored: %+v", cfg)
	}
}
