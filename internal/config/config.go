// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import "time"

// Store backends accepted by STORE_BACKEND.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config is the director's process configuration, parsed from the
// environment with github.com/caarlos0/env.
//
// ============================================================
// DEVELOPER: Adding a setting
// ============================================================
// Give the field an `env` tag and, unless it is optional, an
// `envDefault`. Durations use Go syntax (1500ms, 720h).
// Range checks go in Validate in loader.go; gameplay tuning
// belongs in the content tables, not here.
// ============================================================
type Config struct {
	// Listeners and logging.
	GRPCPort    int    `env:"GRPC_PORT" envDefault:"6565"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"EventChaosDirector"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Career store. Only the fields of the selected backend are read.
	StoreBackend    string        `env:"STORE_BACKEND" envDefault:"redis"`
	CareerTTL       time.Duration `env:"CAREER_TTL" envDefault:"720h"`
	SQLitePath      string        `env:"SQLITE_PATH" envDefault:"event_chaos.db"`
	RedisHost       string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort       string        `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisMaxRetries int           `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelay time.Duration `env:"REDIS_RETRY_DELAY" envDefault:"1s"`

	// CONTENT_PATH empty means the built-in content tables.
	ContentPath string `env:"CONTENT_PATH"`
	ConfigPath  string `env:"CONFIG_PATH" envDefault:"config/pipeline.yaml"`

	// Session runtime.
	TickInterval     time.Duration `env:"TICK_INTERVAL" envDefault:"50ms"`
	MaxSessions      int           `env:"MAX_SESSIONS" envDefault:"256"`
	GeneratorDelay   time.Duration `env:"GENERATOR_DELAY" envDefault:"1500ms"`
	ProceduralEvents bool          `env:"PROCEDURAL_EVENTS" envDefault:"true"`

	// Tracing. The sample ratio applies to root spans only; children of a
	// sampled caller are always kept.
	OtelEnabled      bool    `env:"OTEL_ENABLED" envDefault:"true"`
	ZipkinEndpoint   string  `env:"OTEL_EXPORTER_ZIPKIN_ENDPOINT"`
	TraceSampleRatio float64 `env:"OTEL_TRACE_SAMPLE_RATIO" envDefault:"1"`
}
