package handler_test

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/content"
	"github.com/russofg/event-chaos-sub000/pkg/flow"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/handler"
	"github.com/russofg/event-chaos-sub000/pkg/service"
	"github.com/russofg/event-chaos-sub000/pkg/session"
)

type testEnv struct {
	client   *handler.DirectorClient
	store    *service.MemoryStore
	sessions *session.Manager
}

// setupDirector serves a Director over an in-memory listener. Sessions tick
// once an hour so tests drive them only through RPCs.
func setupDirector(t *testing.T) *testEnv {
	t.Helper()

	tables, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default failed: %v", err)
	}
	store := service.NewMemoryStore()
	sessions := session.NewManager(session.ManagerConfig{
		TickInterval: time.Hour,
		OnEnd:        handler.CareerRecorder(store, 0),
	})

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	handler.RegisterDirectorServer(srv, handler.NewDirector(sessions, store, tables))
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("grpc.NewClient failed: %v", err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
		srv.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = sessions.Shutdown(ctx)
	})

	return &testEnv{
		client:   handler.NewDirectorClient(conn),
		store:    store,
		sessions: sessions,
	}
}

func expectCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	if got := status.Code(err); got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, err)
	}
}

func TestDirector_SessionLifecycle(t *testing.T) {
	env := setupDirector(t)
	ctx := context.Background()

	started, err := env.client.StartSession(ctx, &handler.StartSessionRequest{
		PlayerID:   "player-1",
		ScenarioID: "rock_festival",
		Difficulty: game.DifficultyNormal,
		Seed:       42,
	})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	snap := started.Snapshot
	if snap.SessionID == "" || snap.PlayerID != "player-1" || snap.ScenarioID != "rock_festival" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Systems) != len(game.AllSystems) {
		t.Errorf("expected %d systems, got %d", len(game.AllSystems), len(snap.Systems))
	}

	moved, err := env.client.MoveFader(ctx, &handler.MoveFaderRequest{
		SessionID: snap.SessionID,
		System:    game.SystemSound,
		Value:     150,
	})
	if err != nil {
		t.Fatalf("MoveFader failed: %v", err)
	}
	if got := moved.Snapshot.Systems[game.SystemSound].FaderValue; got != 100 {
		t.Errorf("expected fader clamped to 100, got %v", got)
	}

	_, err = env.client.MoveFader(ctx, &handler.MoveFaderRequest{SessionID: snap.SessionID, System: "SMOKE", Value: 50})
	expectCode(t, err, codes.InvalidArgument)

	_, err = env.client.ResolveEvent(ctx, &handler.ResolveEventRequest{SessionID: snap.SessionID, EventID: "missing", OptionID: "a"})
	expectCode(t, err, codes.NotFound)

	got, err := env.client.GetSnapshot(ctx, &handler.SessionRequest{SessionID: snap.SessionID})
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if got.Snapshot.SessionID != snap.SessionID {
		t.Errorf("snapshot for wrong session: %s", got.Snapshot.SessionID)
	}

	if _, err := env.client.StopSession(ctx, &handler.SessionRequest{SessionID: snap.SessionID}); err != nil {
		t.Fatalf("StopSession failed: %v", err)
	}
	_, err = env.client.MoveFader(ctx, &handler.MoveFaderRequest{SessionID: snap.SessionID, System: game.SystemSound, Value: 50})
	if code := status.Code(err); code != codes.NotFound && code != codes.FailedPrecondition {
		t.Errorf("expected a stopped session to refuse input, got %v", err)
	}

	// A stopped session pays nothing into the career.
	c, err := env.client.GetCareer(ctx, &handler.PlayerRequest{PlayerID: "player-1"})
	if err != nil {
		t.Fatalf("GetCareer failed: %v", err)
	}
	if len(c.Career.CompletedScenarios) != 0 {
		t.Errorf("expected no completed scenarios, got %v", c.Career.CompletedScenarios)
	}
}

func TestDirector_StartSessionValidation(t *testing.T) {
	env := setupDirector(t)
	ctx := context.Background()

	_, err := env.client.StartSession(ctx, &handler.StartSessionRequest{ScenarioID: "rock_festival", Difficulty: game.DifficultyNormal})
	expectCode(t, err, codes.InvalidArgument)

	_, err = env.client.StartSession(ctx, &handler.StartSessionRequest{PlayerID: "p", ScenarioID: "moon_landing", Difficulty: game.DifficultyNormal})
	expectCode(t, err, codes.InvalidArgument)

	_, err = env.client.GetSnapshot(ctx, &handler.SessionRequest{SessionID: "nope"})
	expectCode(t, err, codes.NotFound)
}

func TestDirector_PurchaseUpgrade(t *testing.T) {
	env := setupDirector(t)
	ctx := context.Background()

	_, err := env.client.PurchaseUpgrade(ctx, &handler.PurchaseUpgradeRequest{PlayerID: "player-1", UpgradeID: "zen_1"})
	expectCode(t, err, codes.FailedPrecondition)

	data := career.GrantPoints(career.New(), 4)
	if err := env.store.SaveCareer(ctx, "player-1", data); err != nil {
		t.Fatalf("SaveCareer failed: %v", err)
	}

	resp, err := env.client.PurchaseUpgrade(ctx, &handler.PurchaseUpgradeRequest{PlayerID: "player-1", UpgradeID: "zen_1"})
	if err != nil {
		t.Fatalf("PurchaseUpgrade failed: %v", err)
	}
	if resp.Career.CareerPoints != 1 || len(resp.Career.UnlockedUpgrades) != 1 {
		t.Errorf("unexpected career after purchase: %+v", resp.Career)
	}

	_, err = env.client.PurchaseUpgrade(ctx, &handler.PurchaseUpgradeRequest{PlayerID: "player-1", UpgradeID: "zen_1"})
	expectCode(t, err, codes.AlreadyExists)

	_, err = env.client.PurchaseUpgrade(ctx, &handler.PurchaseUpgradeRequest{PlayerID: "player-1", UpgradeID: "jetpack"})
	expectCode(t, err, codes.NotFound)

	stored, _ := env.store.LoadCareer(ctx, "player-1")
	if stored.CareerPoints != 1 {
		t.Errorf("failed purchases must not change the stored career, got %d points", stored.CareerPoints)
	}
}

func TestDirector_NoticesAndLeaderboard(t *testing.T) {
	env := setupDirector(t)
	ctx := context.Background()

	empty, err := env.client.ListNotices(ctx, &handler.ListNoticesRequest{PlayerID: "player-1"})
	if err != nil {
		t.Fatalf("ListNotices failed: %v", err)
	}
	if empty.Notices == nil || len(empty.Notices) != 0 {
		t.Errorf("expected an empty notice list, got %v", empty.Notices)
	}

	_ = env.store.PostNotice(ctx, service.Notice{PlayerID: "player-1", Title: "Warning", Message: "Crowd is restless", Level: "warning", At: time.Unix(10, 0)})
	_ = env.store.PostNotice(ctx, service.Notice{PlayerID: "player-1", Title: "Combo", Message: "Combo x5!", Level: "info", At: time.Unix(20, 0)})

	notices, err := env.client.ListNotices(ctx, &handler.ListNoticesRequest{PlayerID: "player-1", Limit: 1})
	if err != nil {
		t.Fatalf("ListNotices failed: %v", err)
	}
	if len(notices.Notices) != 1 || notices.Notices[0].Title != "Combo" {
		t.Errorf("expected newest notice first, got %+v", notices.Notices)
	}

	_ = env.store.SubmitScore(ctx, "rock_festival", "a", 900)
	_ = env.store.SubmitScore(ctx, "rock_festival", "b", 1200)

	board, err := env.client.GetLeaderboard(ctx, &handler.GetLeaderboardRequest{ScenarioID: "rock_festival"})
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if len(board.Entries) != 2 || board.Entries[0].PlayerID != "b" || board.Entries[0].Rank != 1 {
		t.Errorf("unexpected leaderboard: %+v", board.Entries)
	}

	_, err = env.client.GetLeaderboard(ctx, &handler.GetLeaderboardRequest{ScenarioID: "moon_landing"})
	expectCode(t, err, codes.NotFound)
}

func newRockFestivalRunner(t *testing.T, tables *content.Tables) (*session.Runner, context.CancelFunc) {
	t.Helper()
	s, err := session.New(session.Config{
		PlayerID:   "player-1",
		ScenarioID: "rock_festival",
		Difficulty: game.DifficultyNormal,
		Tables:     tables,
	})
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}
	runner := session.NewRunner(s, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = runner.Run(ctx) }()
	return runner, cancel
}

func winRunner(t *testing.T, runner *session.Runner, cancel context.CancelFunc, score int) {
	t.Helper()
	err := runner.Do(context.Background(), func(s *session.Session) error {
		s.Outcome = game.OutcomeVictory
		s.Score = score
		// Priced at finish against the career the session started with.
		s.Rewards = &flow.Rewards{Cash: 4000, CareerPoints: 5, Reputation: 15, FirstClear: true}
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	cancel()
	<-runner.Done()
}

func TestCareerRecorder(t *testing.T) {
	tables, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default failed: %v", err)
	}
	store := service.NewMemoryStore()
	record := handler.CareerRecorder(store, time.Second)

	first, cancelFirst := newRockFestivalRunner(t, tables)
	second, cancelSecond := newRockFestivalRunner(t, tables)

	// Nothing is recorded before the session is won.
	record(first)
	if data, _ := store.LoadCareer(context.Background(), "player-1"); len(data.CompletedScenarios) != 0 {
		t.Fatalf("expected untouched career, got %+v", data)
	}

	winRunner(t, first, cancelFirst, 1400)
	winRunner(t, second, cancelSecond, 1200)

	tests := []struct {
		name       string
		runner     *session.Runner
		wantPoints int
		wantCash   int
		wantHigh   int
	}{
		{"first clear", first, 5, 4000, 1400},
		{"repeat clear of a concurrent session", second, 6, 5400, 1400},
	}
	for _, tt := range tests {
		record(tt.runner)

		data, err := store.LoadCareer(context.Background(), "player-1")
		if err != nil {
			t.Fatalf("%s: LoadCareer failed: %v", tt.name, err)
		}
		if data.CareerPoints != tt.wantPoints || data.TotalCash != tt.wantCash || data.HighScores["rock_festival"] != tt.wantHigh {
			t.Errorf("%s: unexpected career %+v", tt.name, data)
		}
		if len(data.CompletedScenarios) != 1 {
			t.Errorf("%s: completed scenarios = %v", tt.name, data.CompletedScenarios)
		}
	}
}
