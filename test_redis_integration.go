// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

//go:build integration
// +build integration

package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/service"
)

// This is a manual integration test for the Redis store
// Run this with: go run -tags integration test_redis_integration.go
// Requires: Redis running on REDIS_ADDR (default localhost:6379)

func main() {
	logrus.SetLevel(logrus.DebugLevel)
	logrus.Infof("Starting Redis integration test...")

	ctx := context.Background()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("Failed to reach Redis at %s: %v", addr, err)
	}
	store := service.NewRedisStore(client, service.RedisStoreConfig{TTL: time.Minute})
	defer store.Close()

	playerID := fmt.Sprintf("test-player-%d", time.Now().Unix())
	scenarioID := fmt.Sprintf("test-scenario-%d", time.Now().Unix())
	logrus.Infof("Testing with player ID: %s", playerID)

	// Test 1: Load career for new player
	logrus.Infof("\n=== Test 1: Load career for new player ===")
	c1, err := store.LoadCareer(ctx, playerID)
	if err != nil {
		logrus.Fatalf("LoadCareer failed: %v", err)
	}
	if c1.TotalCash != 0 || len(c1.CompletedScenarios) != 0 {
		logrus.Fatalf("❌ new career should be empty: %+v", c1)
	}
	logrus.Infof("✓ Got new career: %+v", c1)

	// Test 2: Save and reload
	logrus.Infof("\n=== Test 2: Save career ===")
	c1.CareerPoints = 7
	c1, _ = career.UnlockAchievement(c1, "first_gig")
	if err := store.SaveCareer(ctx, playerID, c1); err != nil {
		logrus.Fatalf("SaveCareer failed: %v", err)
	}
	c2, err := store.LoadCareer(ctx, playerID)
	if err != nil {
		logrus.Fatalf("LoadCareer failed: %v", err)
	}
	if c2.CareerPoints != 7 || !c2.HasAchievement("first_gig") {
		logrus.Fatalf("❌ reloaded career mismatch: %+v", c2)
	}
	logrus.Infof("✓ Reloaded career: points=%d achievements=%v", c2.CareerPoints, c2.UnlockedAchievements)

	// Test 3: Concurrent atomic updates never lose writes
	logrus.Infof("\n=== Test 3: Concurrent UpdateCareer ===")
	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.UpdateCareer(ctx, playerID, func(d career.Data) (career.Data, error) {
				return career.GrantPoints(d, 1), nil
			})
			if err != nil {
				logrus.Errorf("UpdateCareer failed: %v", err)
			}
		}()
	}
	wg.Wait()
	c3, err := store.LoadCareer(ctx, playerID)
	if err != nil {
		logrus.Fatalf("LoadCareer failed: %v", err)
	}
	if c3.CareerPoints != 7+writers {
		logrus.Fatalf("❌ expected %d points, got %d", 7+writers, c3.CareerPoints)
	}
	logrus.Infof("✓ Career points after concurrent updates: %d", c3.CareerPoints)

	// Test 4: Leaderboard keeps the best score per player
	logrus.Infof("\n=== Test 4: Leaderboard ===")
	for _, s := range []int{1200, 900, 1500} {
		if err := store.SubmitScore(ctx, scenarioID, playerID, s); err != nil {
			logrus.Fatalf("SubmitScore failed: %v", err)
		}
	}
	if err := store.SubmitScore(ctx, scenarioID, "rival", 1300); err != nil {
		logrus.Fatalf("SubmitScore failed: %v", err)
	}
	top, err := store.TopScores(ctx, scenarioID, 10)
	if err != nil {
		logrus.Fatalf("TopScores failed: %v", err)
	}
	if len(top) != 2 || top[0].PlayerID != playerID || top[0].Score != 1500 {
		logrus.Fatalf("❌ unexpected leaderboard: %+v", top)
	}
	logrus.Infof("✓ Leaderboard: %+v", top)

	// Test 5: Notices come back newest first
	logrus.Infof("\n=== Test 5: Notices ===")
	for i := 1; i <= 3; i++ {
		err := store.PostNotice(ctx, service.Notice{
			PlayerID: playerID,
			Title:    fmt.Sprintf("notice %d", i),
			Level:    "info",
			At:       time.Now(),
		})
		if err != nil {
			logrus.Fatalf("PostNotice failed: %v", err)
		}
	}
	notices, err := store.ListNotices(ctx, playerID, 2)
	if err != nil {
		logrus.Fatalf("ListNotices failed: %v", err)
	}
	if len(notices) != 2 || notices[0].Title != "notice 3" {
		logrus.Fatalf("❌ unexpected notices: %+v", notices)
	}
	logrus.Infof("✓ Latest notices: %s, %s", notices[0].Title, notices[1].Title)

	// Cleanup
	logrus.Infof("\n=== Cleanup ===")
	client.Del(ctx,
		"event_chaos:career:"+playerID,
		"event_chaos:notices:"+playerID,
		"event_chaos:leaderboard:"+scenarioID,
	)
	logrus.Infof("✓ Removed test keys")

	logrus.Infof("\n✅ All Redis integration tests passed!")
}
