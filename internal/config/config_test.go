package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	for _, key := range []string{"STORE_BACKEND", "GRPC_PORT", "METRICS_PORT", "TICK_INTERVAL", "CAREER_TTL", "LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.GRPCPort != 6565 || cfg.MetricsPort != 8080 {
		t.Errorf("unexpected ports: %d %d", cfg.GRPCPort, cfg.MetricsPort)
	}
	if cfg.TickInterval != 50*time.Millisecond {
		t.Errorf("expected 50ms tick, got %s", cfg.TickInterval)
	}
	if cfg.CareerTTL != 30*24*time.Hour {
		t.Errorf("expected 30 day TTL, got %s", cfg.CareerTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/careers.db")
	t.Setenv("TICK_INTERVAL", "100ms")
	t.Setenv("MAX_SESSIONS", "8")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.StoreBackend != StoreSQLite || cfg.SQLitePath != "/tmp/careers.db" {
		t.Errorf("unexpected store config: %s %s", cfg.StoreBackend, cfg.SQLitePath)
	}
	if cfg.TickInterval != 100*time.Millisecond || cfg.MaxSessions != 8 {
		t.Errorf("unexpected session config: %s %d", cfg.TickInterval, cfg.MaxSessions)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			GRPCPort:     6565,
			MetricsPort:  8080,
			LogLevel:     "info",
			StoreBackend: StoreMemory,
			TickInterval: 50 * time.Millisecond,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad grpc port", func(c *Config) { c.GRPCPort = 0 }, "GRPC_PORT"},
		{"same ports", func(c *Config) { c.MetricsPort = 6565 }, "must differ"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
		{"unknown store", func(c *Config) { c.StoreBackend = "mongo" }, "STORE_BACKEND"},
		{"redis without host", func(c *Config) { c.StoreBackend = StoreRedis }, "REDIS_HOST"},
		{"sqlite without path", func(c *Config) { c.StoreBackend = StoreSQLite }, "SQLITE_PATH"},
		{"tick too fast", func(c *Config) { c.TickInterval = time.Millisecond }, "TICK_INTERVAL"},
		{"negative sessions", func(c *Config) { c.MaxSessions = -1 }, "MAX_SESSIONS"},
		{"negative redis delay", func(c *Config) { c.StoreBackend = StoreRedis; c.RedisHost = "redis"; c.RedisRetryDelay = -time.Second }, "REDIS_RETRY_DELAY"},
		{"sample ratio above one", func(c *Config) { c.TraceSampleRatio = 1.5 }, "OTEL_TRACE_SAMPLE_RATIO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	c := &Config{GRPCPort: 0, MetricsPort: 70000, LogLevel: "info", StoreBackend: "mongo", TickInterval: time.Hour}

	err := c.Validate()
	for _, want := range []string{"GRPC_PORT", "METRICS_PORT", "STORE_BACKEND", "TICK_INTERVAL"} {
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error = %v, expected it to mention %s", err, want)
		}
	}
}
