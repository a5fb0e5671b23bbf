// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
)

const (
	careerKeyPrefix      = "event_chaos:career:"
	leaderboardKeyPrefix = "event_chaos:leaderboard:"
	noticesKeyPrefix     = "event_chaos:notices:"

	// maxUpdateAttempts bounds optimistic retries of UpdateCareer.
	maxUpdateAttempts = 5
)

// RedisStore implements Store on a Redis server.
type RedisStore struct {
	client redis.UniversalClient
	cfg    RedisStoreConfig
}

// RedisStoreConfig tunes the Redis store.
type RedisStoreConfig struct {
	// TTL applied to careers and notices on every write. Zero means DefaultTTL.
	TTL time.Duration
	// Known filters ids when decoding stored careers.
	Known career.Known
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(client redis.UniversalClient, cfg RedisStoreConfig) *RedisStore {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &RedisStore{
		client: client,
		cfg:    cfg,
	}
}

func makeCareerKey(playerID string) string {
	return fmt.Sprintf("%s%s", careerKeyPrefix, playerID)
}

func makeLeaderboardKey(scenarioID string) string {
	return fmt.Sprintf("%s%s", leaderboardKeyPrefix, scenarioID)
}

func makeNoticesKey(playerID string) string {
	return fmt.Sprintf("%s%s", noticesKeyPrefix, playerID)
}

// LoadCareer retrieves the career for a player from Redis.
func (r *RedisStore) LoadCareer(ctx context.Context, playerID string) (career.Data, error) {
	return r.loadCareer(ctx, r.client, playerID)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisStore) loadCareer(ctx context.Context, c stringGetter, playerID string) (career.Data, error) {
	data, err := c.Get(ctx, makeCareerKey(playerID)).Bytes()
	if err == redis.Nil {
		logrus.Debugf("no existing career for player %s, returning new career", playerID)
		return career.New(), nil
	}
	if err != nil {
		logrus.Errorf("failed to get career for player %s: %v", playerID, err)
		return career.Data{}, fmt.Errorf("failed to get career: %w", err)
	}

	return career.NormalizeJSON(data, r.cfg.Known), nil
}

// SaveCareer overwrites the career for a player in Redis.
func (r *RedisStore) SaveCareer(ctx context.Context, playerID string, data career.Data) error {
	blob, err := json.Marshal(data)
	if err != nil {
		logrus.Errorf("failed to marshal career for player %s: %v", playerID, err)
		return fmt.Errorf("failed to marshal career: %w", err)
	}

	if err := r.client.Set(ctx, makeCareerKey(playerID), blob, r.cfg.TTL).Err(); err != nil {
		logrus.Errorf("failed to set career for player %s: %v", playerID, err)
		return fmt.Errorf("failed to set career: %w", err)
	}

	logrus.Debugf("saved career for player %s with TTL %v", playerID, r.cfg.TTL)
	return nil
}

// UpdateCareer applies fn inside a WATCH transaction, retrying when another
// writer touched the key in between.
func (r *RedisStore) UpdateCareer(ctx context.Context, playerID string, fn UpdateFunc) (career.Data, error) {
	key := makeCareerKey(playerID)
	var result career.Data

	txf := func(tx *redis.Tx) error {
		current, err := r.loadCareer(ctx, tx, playerID)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			result = current
			return backoff.Permanent(err)
		}
		blob, err := json.Marshal(next)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to marshal career: %w", err))
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, blob, r.cfg.TTL)
			return nil
		})
		if err == nil {
			result = next
		}
		return err
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(10*time.Millisecond), maxUpdateAttempts-1),
		ctx,
	)
	err := backoff.Retry(func() error {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			logrus.Debugf("career update for player %s raced, retrying", playerID)
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}, b)
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
		return result, err
	}
	return result, nil
}

// SubmitScore keeps the highest score per player in a sorted set.
func (r *RedisStore) SubmitScore(ctx context.Context, scenarioID, playerID string, score int) error {
	key := makeLeaderboardKey(scenarioID)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		prev, err := tx.ZScore(ctx, key, playerID).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		if err == nil && prev >= float64(score) {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.ZAdd(ctx, key, &redis.Z{Score: float64(score), Member: playerID})
			return nil
		})
		return err
	}, key)
	if err != nil {
		logrus.Errorf("failed to submit score for player %s on %s: %v", playerID, scenarioID, err)
		return fmt.Errorf("failed to submit score: %w", err)
	}
	return nil
}

// TopScores reads the best n entries of a scenario leaderboard.
func (r *RedisStore) TopScores(ctx context.Context, scenarioID string, n int) ([]rule.LeaderboardEntry, error) {
	if n <= 0 {
		n = 10
	}
	zs, err := r.client.ZRevRangeWithScores(ctx, makeLeaderboardKey(scenarioID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]rule.LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		member, _ := z.Member.(string)
		entries = append(entries, rule.LeaderboardEntry{
			PlayerID: member,
			Rank:     i + 1,
			Score:    int(z.Score),
		})
	}
	return entries, nil
}

// PostNotice pushes a notice onto the player's capped list.
func (r *RedisStore) PostNotice(ctx context.Context, notice Notice) error {
	blob, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to marshal notice: %w", err)
	}

	key := makeNoticesKey(notice.PlayerID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, blob)
		pipe.LTrim(ctx, key, 0, MaxNotices-1)
		pipe.Expire(ctx, key, r.cfg.TTL)
		return nil
	})
	if err != nil {
		logrus.Errorf("failed to post notice for player %s: %v", notice.PlayerID, err)
		return fmt.Errorf("failed to post notice: %w", err)
	}
	return nil
}

// ListNotices returns the newest notices of a player.
func (r *RedisStore) ListNotices(ctx context.Context, playerID string, limit int) ([]Notice, error) {
	raw, err := r.client.LRange(ctx, makeNoticesKey(playerID), 0, int64(clampLimit(limit)-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list notices: %w", err)
	}

	notices := make([]Notice, 0, len(raw))
	for _, item := range raw {
		var n Notice
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			logrus.Warnf("skipping undecodable notice for player %s: %v", playerID, err)
			continue
		}
		notices = append(notices, n)
	}
	return notices, nil
}

// Ping implements Store.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close implements Store.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
