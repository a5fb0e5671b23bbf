package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/russofg/event-chaos-sub000/pkg/career"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func setupTestSQLite(t *testing.T) *SQLiteStore {
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "careers.db"), career.Known{})
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("redis", func(t *testing.T) {
		client, _ := setupTestRedis(t)
		fn(t, NewRedisStore(client, RedisStoreConfig{}))
	})
	t.Run("sqlite", func(t *testing.T) {
		fn(t, setupTestSQLite(t))
	})
}

func TestStore_CareerRoundTrip(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		got, err := s.LoadCareer(ctx, "new-player")
		if err != nil {
			t.Fatalf("LoadCareer() error = %v", err)
		}
		if got.CareerPoints != 0 || len(got.CompletedScenarios) != 0 {
			t.Errorf("new player career = %+v, expected empty", got)
		}

		data := career.New()
		data.CareerPoints = 42
		data.TotalCash = 1200
		data.CompletedScenarios = []string{"tutorial"}
		data.HighScores["tutorial"] = 880
		data.UnlockedAchievements = []string{"hot_hands"}

		if err := s.SaveCareer(ctx, "p1", data); err != nil {
			t.Fatalf("SaveCareer() error = %v", err)
		}

		got, err = s.LoadCareer(ctx, "p1")
		if err != nil {
			t.Fatalf("LoadCareer() error = %v", err)
		}
		if got.CareerPoints != 42 || got.TotalCash != 1200 {
			t.Errorf("points/cash = %d/%d, expected 42/1200", got.CareerPoints, got.TotalCash)
		}
		if got.HighScores["tutorial"] != 880 {
			t.Errorf("high score = %d, expected 880", got.HighScores["tutorial"])
		}
		if !got.HasAchievement("hot_hands") {
			t.Error("expected hot_hands to survive the round trip")
		}
	})
}

func TestStore_UpdateCareer(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		got, err := s.UpdateCareer(ctx, "p1", func(d career.Data) (career.Data, error) {
			return career.GrantPoints(d, 5), nil
		})
		if err != nil {
			t.Fatalf("UpdateCareer() error = %v", err)
		}
		if got.CareerPoints != 5 {
			t.Errorf("returned points = %d, expected 5", got.CareerPoints)
		}

		boom := errors.New("boom")
		_, err = s.UpdateCareer(ctx, "p1", func(d career.Data) (career.Data, error) {
			return career.GrantPoints(d, 100), boom
		})
		if !errors.Is(err, boom) {
			t.Errorf("UpdateCareer() error = %v, expected boom", err)
		}

		stored, _ := s.LoadCareer(ctx, "p1")
		if stored.CareerPoints != 5 {
			t.Errorf("stored points = %d, failed update must not write", stored.CareerPoints)
		}
	})
}

func TestStore_UpdateCareer_Concurrent(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": setupTestSQLite(t),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := s.UpdateCareer(ctx, "p1", func(d career.Data) (career.Data, error) {
						return career.GrantPoints(d, 1), nil
					}); err != nil {
						t.Errorf("UpdateCareer() error = %v", err)
					}
				}()
			}
			wg.Wait()

			got, _ := s.LoadCareer(ctx, "p1")
			if got.CareerPoints != 20 {
				t.Errorf("points = %d, expected 20", got.CareerPoints)
			}
		})
	}
}

func TestRedisStore_UpdateCareer_RetriesOnConflict(t *testing.T) {
	client, _ := setupTestRedis(t)
	s := NewRedisStore(client, RedisStoreConfig{})
	ctx := context.Background()

	calls := 0
	got, err := s.UpdateCareer(ctx, "p1", func(d career.Data) (career.Data, error) {
		calls++
		if calls == 1 {
			// A concurrent writer lands between WATCH and EXEC.
			other := career.New()
			other.CareerPoints = 100
			if err := s.SaveCareer(ctx, "p1", other); err != nil {
				t.Fatalf("SaveCareer() error = %v", err)
			}
		}
		return career.GrantPoints(d, 5), nil
	})
	if err != nil {
		t.Fatalf("UpdateCareer() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("fn called %d times, expected a retry", calls)
	}
	if got.CareerPoints != 105 {
		t.Errorf("points = %d, expected the retry to build on the concurrent write", got.CareerPoints)
	}
}

func TestRedisStore_CorruptCareer(t *testing.T) {
	client, mr := setupTestRedis(t)
	s := NewRedisStore(client, RedisStoreConfig{})

	if err := mr.Set(makeCareerKey("p1"), "{not json"); err != nil {
		t.Fatalf("mr.Set() error = %v", err)
	}

	got, err := s.LoadCareer(context.Background(), "p1")
	if err != nil {
		t.Fatalf("LoadCareer() error = %v", err)
	}
	if got.CareerPoints != 0 || got.HighScores == nil {
		t.Errorf("corrupt career = %+v, expected a fresh career", got)
	}
}

func TestRedisStore_TTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	s := NewRedisStore(client, RedisStoreConfig{TTL: time.Hour})

	if err := s.SaveCareer(context.Background(), "p1", career.New()); err != nil {
		t.Fatalf("SaveCareer() error = %v", err)
	}
	if ttl := mr.TTL(makeCareerKey("p1")); ttl != time.Hour {
		t.Errorf("TTL = %v, expected 1h", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if mr.Exists(makeCareerKey("p1")) {
		t.Error("expected career to expire")
	}
}

func TestStore_Leaderboard(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		submits := []struct {
			player string
			score  int
		}{
			{"a", 100},
			{"b", 300},
			{"a", 50}, // lower score is ignored
			{"c", 200},
		}
		for _, sub := range submits {
			if err := s.SubmitScore(ctx, "rock_festival", sub.player, sub.score); err != nil {
				t.Fatalf("SubmitScore() error = %v", err)
			}
		}

		top, err := s.TopScores(ctx, "rock_festival", 2)
		if err != nil {
			t.Fatalf("TopScores() error = %v", err)
		}
		if len(top) != 2 {
			t.Fatalf("len(top) = %d, expected 2", len(top))
		}
		if top[0].PlayerID != "b" || top[0].Rank != 1 || top[0].Score != 300 {
			t.Errorf("top[0] = %+v", top[0])
		}
		if top[1].PlayerID != "c" || top[1].Rank != 2 {
			t.Errorf("top[1] = %+v", top[1])
		}

		all, _ := s.TopScores(ctx, "rock_festival", 10)
		if len(all) != 3 || all[2].PlayerID != "a" || all[2].Score != 100 {
			t.Errorf("all = %+v, expected a to keep 100", all)
		}

		empty, err := s.TopScores(ctx, "gala", 3)
		if err != nil || len(empty) != 0 {
			t.Errorf("empty board = %v, %v", empty, err)
		}
	})
}

func TestStore_Notices(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		for i := 0; i < MaxNotices+5; i++ {
			n := Notice{
				PlayerID:  "p1",
				SessionID: "s1",
				RuleID:    "stress_warning",
				Message:   fmt.Sprintf("notice %d", i),
				Level:     "warning",
				At:        at.Add(time.Duration(i) * time.Second),
			}
			if err := s.PostNotice(ctx, n); err != nil {
				t.Fatalf("PostNotice() error = %v", err)
			}
		}

		latest, err := s.ListNotices(ctx, "p1", 2)
		if err != nil {
			t.Fatalf("ListNotices() error = %v", err)
		}
		if len(latest) != 2 {
			t.Fatalf("len = %d, expected 2", len(latest))
		}
		want := fmt.Sprintf("notice %d", MaxNotices+4)
		if latest[0].Message != want {
			t.Errorf("newest = %q, expected %q", latest[0].Message, want)
		}
		if !latest[0].At.Equal(at.Add(time.Duration(MaxNotices+4) * time.Second)) {
			t.Errorf("At = %v", latest[0].At)
		}

		all, _ := s.ListNotices(ctx, "p1", 0)
		if len(all) != MaxNotices {
			t.Errorf("kept %d notices, expected %d", len(all), MaxNotices)
		}

		other, _ := s.ListNotices(ctx, "p2", 10)
		if len(other) != 0 {
			t.Errorf("p2 notices = %d, expected none", len(other))
		}
	})
}

func TestHealthChecker(t *testing.T) {
	client, mr := setupTestRedis(t)
	h := NewHealthChecker(NewRedisStore(client, RedisStoreConfig{}))

	if !h.IsHealthy(context.Background()) {
		t.Error("expected healthy store")
	}

	mr.Close()
	if h.IsHealthy(context.Background()) {
		t.Error("expected unhealthy store after shutdown")
	}
}

type togglePinger struct {
	mu   sync.Mutex
	down bool
}

func (p *togglePinger) set(down bool) {
	p.mu.Lock()
	p.down = down
	p.mu.Unlock()
}

func (p *togglePinger) Ping(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.down {
		return errors.New("connection refused")
	}
	return nil
}

func TestHealthChecker_WatchReportsTransitions(t *testing.T) {
	pinger := &togglePinger{}
	h := NewHealthChecker(pinger).WithTimeout(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan bool, 4)
	done := make(chan struct{})
	go func() {
		h.Watch(ctx, 5*time.Millisecond, func(healthy bool) { changes <- healthy })
		close(done)
	}()

	expect := func(want bool) {
		t.Helper()
		select {
		case got := <-changes:
			if got != want {
				t.Fatalf("change = %v, expected %v", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("no change to %v reported", want)
		}
	}

	pinger.set(true)
	expect(false)
	pinger.set(false)
	expect(true)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	if len(changes) != 0 {
		t.Errorf("unexpected extra changes: %d", len(changes))
	}
}
