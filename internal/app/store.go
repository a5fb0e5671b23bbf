// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/russofg/event-chaos-sub000/internal/config"
	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/service"
)

// openStore creates the backend selected by STORE_BACKEND.
//
// ============================================================
// DEVELOPER: Storage backends
// ============================================================
// - memory: process-local, lost on restart (tests, demos)
// - redis:  shared across replicas, careers expire after CAREER_TTL
// - sqlite: single-node file at SQLITE_PATH
//
// Every backend implements service.Store, so rules and actions
// never know which one is active.
// ============================================================
func openStore(ctx context.Context, cfg *config.Config, known career.Known) (service.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		logrus.Warn("using in-memory store; careers are lost on restart")
		return service.NewMemoryStore(), nil

	case config.StoreSQLite:
		return service.OpenSQLiteStore(cfg.SQLitePath, known)

	case config.StoreRedis:
		client, err := connectRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return service.NewRedisStore(client, service.RedisStoreConfig{
			TTL:   cfg.CareerTTL,
			Known: known,
		}), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// connectRedis dials Redis and pings it with exponential backoff.
func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost + ":" + cfg.RedisPort,
		Password:     cfg.RedisPassword,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.RedisRetryDelay
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.RedisMaxRetries)), ctx)

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		policy,
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to Redis at %s: %w", client.Options().Addr, err)
	}

	logrus.Info("Redis client initialized")
	return client, nil
}
