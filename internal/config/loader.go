// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	minTickInterval = 10 * time.Millisecond
	maxTickInterval = time.Second
)

// Load applies a local .env file when one exists and then parses the
// environment. Variables already set win over the file.
func Load() (*Config, error) {
	switch err := godotenv.Load(); {
	case err == nil:
		logrus.Info("loaded .env")
	case errors.Is(err, fs.ErrNotExist):
		logrus.Debug("no .env file, using the process environment")
	default:
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(validPort(c.GRPCPort), "GRPC_PORT %d is out of range", c.GRPCPort)
	check(validPort(c.MetricsPort), "METRICS_PORT %d is out of range", c.MetricsPort)
	check(c.GRPCPort != c.MetricsPort, "GRPC_PORT and METRICS_PORT must differ (both %d)", c.GRPCPort)
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	switch c.StoreBackend {
	case StoreMemory:
	case StoreRedis:
		check(c.RedisHost != "", "REDIS_HOST is required for the redis store")
		check(c.RedisMaxRetries >= 0, "REDIS_MAX_RETRIES %d is negative", c.RedisMaxRetries)
		check(c.RedisRetryDelay >= 0, "REDIS_RETRY_DELAY %s is negative", c.RedisRetryDelay)
	case StoreSQLite:
		check(c.SQLitePath != "", "SQLITE_PATH is required for the sqlite store")
	default:
		check(false, "STORE_BACKEND %q is not one of %s, %s, %s", c.StoreBackend, StoreMemory, StoreRedis, StoreSQLite)
	}
	check(c.CareerTTL >= 0, "CAREER_TTL %s is negative", c.CareerTTL)

	check(c.TickInterval >= minTickInterval && c.TickInterval <= maxTickInterval,
		"TICK_INTERVAL %s is outside %s..%s", c.TickInterval, minTickInterval, maxTickInterval)
	check(c.MaxSessions >= 0, "MAX_SESSIONS %d is negative", c.MaxSessions)
	check(c.GeneratorDelay >= 0, "GENERATOR_DELAY %s is negative", c.GeneratorDelay)

	check(c.TraceSampleRatio >= 0 && c.TraceSampleRatio <= 1,
		"OTEL_TRACE_SAMPLE_RATIO %g is outside 0..1", c.TraceSampleRatio)

	return errors.Join(errs...)
}

func validPort(p int) bool {
	return p > 0 && p <= 65535
}
