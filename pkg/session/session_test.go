package session

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/content"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/generator"
	"github.com/russofg/event-chaos-sub000/pkg/random"
)

var t0 = time.Unix(1_700_000_000, 0)

const tick = 50 * time.Millisecond

func defaultTables(t *testing.T) *content.Tables {
	t.Helper()
	tables, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default() error = %v", err)
	}
	return tables
}

func newSession(t *testing.T, scenario string, difficulty game.Difficulty) *Session {
	t.Helper()
	s, err := New(Config{
		ID:         "s1",
		PlayerID:   "p1",
		ScenarioID: scenario,
		Difficulty: difficulty,
		Tables:     defaultTables(t),
		Source:     random.Fixed(0.5),
		Start:      t0,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func kinds(outcomes []Outcome) map[Kind]int {
	out := map[Kind]int{}
	for _, o := range outcomes {
		out[o.Kind]++
	}
	return out
}

func TestNew_Defaults(t *testing.T) {
	s := newSession(t, "tutorial", game.DifficultyHard)

	if s.Difficulty != game.DifficultyTutorial {
		t.Errorf("tutorial scenario should force the tutorial tier, got %s", s.Difficulty)
	}
	if s.Mode != game.ModeNormal || s.Crew != game.CrewNone {
		t.Errorf("mode=%s crew=%s", s.Mode, s.Crew)
	}
	if s.Stats.PublicInterest != 55 || s.Stats.ClientSatisfaction != 55 || s.Stats.Stress != 10 {
		t.Errorf("initial stats = %+v", s.Stats)
	}
	if s.Stats.Budget != 10000 || s.Stats.TimeRemaining != 3*time.Minute {
		t.Errorf("budget=%v time=%v", s.Stats.Budget, s.Stats.TimeRemaining)
	}
	if len(s.Systems) != 4 {
		t.Fatalf("expected 4 systems, got %d", len(s.Systems))
	}
	for id, sys := range s.Systems {
		if sys.FaderValue != 50 || sys.Health != 100 || sys.Status != game.StatusOK {
			t.Errorf("%s = %+v", id, sys)
		}
	}
}

func TestNew_KeepsHandBuiltCareer(t *testing.T) {
	s, err := New(Config{
		PlayerID:   "p1",
		ScenarioID: "rock_festival",
		Difficulty: game.DifficultyNormal,
		Tables:     defaultTables(t),
		Source:     random.Fixed(0.5),
		Start:      t0,
		Career: career.Data{
			UnlockedUpgrades:   []string{"zen_1", "ghost_upgrade"},
			CompletedScenarios: []string{"tutorial"},
			CareerPoints:       7,
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if s.Career.CareerPoints != 7 {
		t.Errorf("career points = %d, expected 7", s.Career.CareerPoints)
	}
	if !reflect.DeepEqual(s.Career.UnlockedUpgrades, []string{"zen_1"}) {
		t.Errorf("upgrades = %v, expected the known zen_1 only", s.Career.UnlockedUpgrades)
	}
	if !reflect.DeepEqual(s.Career.CompletedScenarios, []string{"tutorial"}) {
		t.Errorf("completed = %v", s.Career.CompletedScenarios)
	}
	if s.Career.HighScores == nil {
		t.Error("high scores should be initialised")
	}
	if d := s.Permanent.Stress - 0.9; d < -1e-9 || d > 1e-9 {
		t.Errorf("permanent stress = %v, expected 0.9 from zen_1", s.Permanent.Stress)
	}
}

func TestNew_CrewBudgetBonus(t *testing.T) {
	s, err := New(Config{
		ScenarioID: "tutorial",
		Crew:       game.CrewExtraBudget,
		Tables:     defaultTables(t),
		Source:     random.Fixed(0.5),
		Start:      t0,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Stats.Budget != 12000 {
		t.Errorf("budget = %v, expected 12000", s.Stats.Budget)
	}
	if s.ID == "" {
		t.Error("an id should be generated")
	}
}

func TestNew_Invalid(t *testing.T) {
	tables := defaultTables(t)
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no tables", Config{ScenarioID: "tutorial"}},
		{"unknown scenario", Config{ScenarioID: "moon_landing", Tables: tables}},
		{"unknown difficulty", Config{ScenarioID: "corporate_gala", Difficulty: "NIGHTMARE", Tables: tables}},
		{"unknown mode", Config{ScenarioID: "corporate_gala", Difficulty: game.DifficultyNormal, Mode: "ZEN", Tables: tables}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestMoveFader(t *testing.T) {
	s := newSession(t, "corporate_gala", game.DifficultyNormal)

	if err := s.MoveFader(game.SystemSound, 140); err != nil {
		t.Fatalf("MoveFader error = %v", err)
	}
	if got := s.Systems[game.SystemSound].FaderValue; got != 100 {
		t.Errorf("fader = %v, expected clamp to 100", got)
	}
	if err := s.MoveFader("PYRO", 50); !errors.Is(err, ErrUnknownSystem) {
		t.Errorf("error = %v, expected ErrUnknownSystem", err)
	}

	s.Outcome = game.OutcomeGameOver
	if err := s.MoveFader(game.SystemSound, 50); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("error = %v, expected ErrSessionEnded", err)
	}
}

func activeIncident(id string) game.GameEvent {
	return game.GameEvent{
		ID:           id,
		DefinitionID: "sound_feedback",
		SystemID:     game.SystemSound,
		Title:        "Feedback",
		Severity:     1,
		Priority:     5,
		CreatedAt:    t0,
		ExpiresAt:    t0.Add(20 * time.Second),
		Options: []game.EventOption{
			{ID: "right", Cost: 200, StressImpact: -5, IsCorrect: true},
			{ID: "wrong", Cost: 100, StressImpact: 4},
		},
	}
}

func TestResolveEvent_Success(t *testing.T) {
	s := newSession(t, "corporate_gala", game.DifficultyNormal)
	s.Active = []game.GameEvent{activeIncident("e1"), activeIncident("e2")}
	s.Active[1].DefinitionID = "lights_flicker"

	report, err := s.ResolveEvent("e1", "right", nil)
	if err != nil {
		t.Fatalf("ResolveEvent error = %v", err)
	}
	if !report.Success || report.EventID != "e1" || report.Cost != 200 {
		t.Errorf("report = %+v", report)
	}
	if len(s.Active) != 1 || s.Active[0].ID != "e2" {
		t.Errorf("active = %+v", s.Active)
	}
	if s.Telemetry.ResolvedEvents != 1 || s.Streak.EventSuccess != 1 || s.Combo.Count != 1 {
		t.Errorf("telemetry=%+v streak=%+v combo=%+v", s.Telemetry, s.Streak, s.Combo)
	}
	if !s.cooldowns.Active("sound_feedback", t0.Add(29*time.Second)) {
		t.Error("resolved definition should cool down for 30s")
	}
	if s.Stats.ClientSatisfaction != 60 || s.Stats.PublicInterest != 58 || s.Stats.Stress != 5 {
		t.Errorf("stats = %+v", s.Stats)
	}

	out := s.Drain()
	if len(out) != 1 || out[0].Kind != KindEventResolved || out[0].Report == nil {
		t.Fatalf("outcomes = %+v", out)
	}
	if out[0].SessionID != "s1" || out[0].PlayerID != "p1" || out[0].ScenarioID != "corporate_gala" {
		t.Errorf("outcome identity = %+v", out[0])
	}
}

func TestResolveEvent_Failures(t *testing.T) {
	s := newSession(t, "corporate_gala", game.DifficultyNormal)
	s.Active = []game.GameEvent{activeIncident("e1")}

	if _, err := s.ResolveEvent("nope", "right", nil); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("error = %v, expected ErrEventNotFound", err)
	}
	if _, err := s.ResolveEvent("e1", "nope", nil); !errors.Is(err, ErrOptionNotFound) {
		t.Errorf("error = %v, expected ErrOptionNotFound", err)
	}

	lost := false
	report, err := s.ResolveEvent("e1", "right", &lost)
	if err != nil {
		t.Fatalf("ResolveEvent error = %v", err)
	}
	if report.Success {
		t.Error("a lost minigame must fail the resolution")
	}
	if s.Stats.Stress != 20 || s.Telemetry.FailedEvents != 1 || s.Combo.Count != 0 {
		t.Errorf("stress=%v telemetry=%+v combo=%+v", s.Stats.Stress, s.Telemetry, s.Combo)
	}
	if k := kinds(s.Drain()); k[KindEventFailed] != 1 {
		t.Errorf("outcomes = %v", k)
	}
}

func TestStep_TimerVictory(t *testing.T) {
	s := newSession(t, "tutorial", game.DifficultyTutorial)
	s.Stats.TimeRemaining = tick

	s.Step(t0.Add(tick), tick)

	if s.Outcome != game.OutcomeVictory {
		t.Fatalf("outcome = %s, expected VICTORY", s.Outcome)
	}
	if s.Score <= 0 || s.Rewards == nil || !s.Rewards.FirstClear {
		t.Errorf("score=%d rewards=%+v", s.Score, s.Rewards)
	}
	if len(s.Career.CompletedScenarios) != 1 || s.Career.HighScores["tutorial"] != s.Score {
		t.Errorf("career = %+v", s.Career)
	}

	out := s.Drain()
	last := out[len(out)-1]
	if last.Kind != KindSessionEnded || last.Result != game.OutcomeVictory || last.Snapshot == nil {
		t.Errorf("last outcome = %+v", last)
	}

	s.Step(t0.Add(2*tick), tick)
	if len(s.Drain()) != 0 || s.Elapsed != tick {
		t.Error("an ended session must not advance")
	}
}

func TestStep_ImmediateGameOver(t *testing.T) {
	s := newSession(t, "corporate_gala", game.DifficultyNormal)
	s.Stats.PublicInterest = 0

	s.Step(t0.Add(tick), tick)

	if s.Outcome != game.OutcomeGameOver || s.Rewards != nil {
		t.Errorf("outcome=%s rewards=%+v", s.Outcome, s.Rewards)
	}
}

func TestStep_TutorialSafetyNet(t *testing.T) {
	s := newSession(t, "tutorial", game.DifficultyTutorial)
	s.Stats.Stress = 99
	s.Stats.Budget = -500

	s.Step(t0.Add(tick), tick)

	if s.Ended() {
		t.Fatal("tutorials never end early")
	}
	if s.Stats.Stress != 50 || s.Stats.Budget != 1000 {
		t.Errorf("stats = %+v", s.Stats)
	}
}

func TestStep_Expiry(t *testing.T) {
	s := newSession(t, "corporate_gala", game.DifficultyNormal)
	ev := activeIncident("e1")
	ev.ExpiresAt = t0.Add(10 * time.Millisecond)
	s.Active = []game.GameEvent{ev}

	s.Step(t0.Add(tick), tick)

	if len(s.Active) != 0 {
		t.Errorf("expired incident still active: %+v", s.Active)
	}
	if s.Telemetry.ExpiredEvents != 1 || s.Streak.EventFail != 1 {
		t.Errorf("telemetry=%+v streak=%+v", s.Telemetry, s.Streak)
	}
	if got := s.Systems[game.SystemSound].Health; got != 80 {
		t.Errorf("sound health = %v, expected 80", got)
	}
	if !s.cooldowns.Active("sound_feedback", t0.Add(59*time.Second)) {
		t.Error("expired definition should cool down for 60s")
	}
	if k := kinds(s.Drain()); k[KindEventExpired] != 1 {
		t.Errorf("outcomes = %v", k)
	}
}

func TestStep_Escalation(t *testing.T) {
	s := newSession(t, "corporate_gala", game.DifficultyNormal)
	ev := activeIncident("e1")
	ev.CanEscalate = true
	ev.EscalationTime = t0.Add(10 * time.Millisecond)
	s.Active = []game.GameEvent{ev}

	s.Step(t0.Add(tick), tick)

	if len(s.Active) == 0 {
		t.Fatal("escalated incident missing")
	}
	next := s.Active[0]
	if next.DefinitionID != "sound_feedback_storm" || next.Severity != 2 || next.EscalatedFrom != "e1" {
		t.Errorf("escalated = %+v", next)
	}
	if !next.ExpiresAt.Equal(ev.ExpiresAt) {
		t.Errorf("escalation must keep the deadline: %v vs %v", next.ExpiresAt, ev.ExpiresAt)
	}
	if k := kinds(s.Drain()); k[KindEventEscalated] != 1 {
		t.Errorf("outcomes = %v", k)
	}
}

func TestStep_MissionLifecycle(t *testing.T) {
	s := newSession(t, "corporate_gala", game.DifficultyNormal)
	s.nextMissionAt = t0.Add(tick)

	now := t0.Add(tick)
	s.Step(now, tick)
	if s.Mission == nil {
		t.Fatal("a mission should start once its delay passes")
	}
	if k := kinds(s.Drain()); k[KindMissionStarted] != 1 {
		t.Errorf("outcomes = %v", k)
	}

	var seen map[Kind]int
	for i := 0; i < 2000 && s.Mission != nil && !s.Ended(); i++ {
		for _, c := range s.Mission.Criteria {
			if err := s.MoveFader(c.SystemID, (c.Min+c.Max)/2); err != nil {
				t.Fatalf("MoveFader error = %v", err)
			}
		}
		now = now.Add(tick)
		s.Step(now, tick)
		seen = kinds(s.Drain())
	}

	if seen[KindMissionCompleted] != 1 {
		t.Fatalf("mission did not complete, last outcomes = %v", seen)
	}
	if s.Streak.MissionSuccess != 1 {
		t.Errorf("streak = %+v", s.Streak)
	}
	if !s.nextMissionAt.After(now) {
		t.Error("next mission should be scheduled after completion")
	}
}

func TestStep_TickSignal(t *testing.T) {
	s := newSession(t, "corporate_gala", game.DifficultyNormal)

	now := t0
	ticks := 0
	for i := 0; i < 40; i++ {
		now = now.Add(tick)
		s.Step(now, tick)
		ticks += kinds(s.Drain())[KindTick]
	}
	if ticks != 2 {
		t.Errorf("expected 2 tick outcomes in 2s, got %d", ticks)
	}
}

func TestSnapshot_IsIndependent(t *testing.T) {
	s := newSession(t, "corporate_gala", game.DifficultyNormal)
	s.Active = []game.GameEvent{activeIncident("e1")}

	snap := s.Snapshot()
	snap.Systems[game.SystemSound] = game.SystemState{}
	snap.Active[0].Title = "changed"

	if s.Systems[game.SystemSound].Health != 100 || s.Active[0].Title != "Feedback" {
		t.Error("snapshot must not alias session state")
	}
}

func simulate(t *testing.T, seed uint64) Summary {
	t.Helper()
	tables := defaultTables(t)
	summary, err := Simulate(context.Background(), SimulationConfig{
		Session: Config{
			ID:         "sim",
			ScenarioID: "tutorial",
			Tables:     tables,
			Source:     random.NewSeeded(seed),
			Generator:  generator.NewSimulated(tables, 0, random.NewSeeded(seed+1)),
			Start:      t0,
		},
		Autopilot: NewAutopilot(0.9, time.Second, random.NewSeeded(seed+2)),
	})
	if err != nil {
		t.Fatalf("Simulate error = %v", err)
	}
	return summary
}

func TestSimulate_Deterministic(t *testing.T) {
	a := simulate(t, 7)
	b := simulate(t, 7)

	if a.Outcome == game.OutcomeNone {
		t.Fatal("simulation should reach an outcome")
	}
	if a.Elapsed != 3*time.Minute {
		t.Errorf("tutorial should run its full length, elapsed %v", a.Elapsed)
	}
	if a.Outcome != b.Outcome || a.Score != b.Score || a.Stats != b.Stats {
		t.Errorf("runs diverged: %+v vs %+v", a, b)
	}
	if !reflect.DeepEqual(a.Counts, b.Counts) || !reflect.DeepEqual(a.Telemetry, b.Telemetry) {
		t.Errorf("counts diverged: %v vs %v", a.Counts, b.Counts)
	}
}

func TestSimulate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Simulate(ctx, SimulationConfig{Session: Config{
		ScenarioID: "tutorial",
		Tables:     defaultTables(t),
		Source:     random.Fixed(0.5),
		Start:      t0,
	}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, expected context.Canceled", err)
	}
}

func TestManager_Lifecycle(t *testing.T) {
	sink := NewChannelSink(1024)
	ended := make(chan string, 1)
	var started []string
	m := NewManager(ManagerConfig{
		MaxSessions:  1,
		TickInterval: 5 * time.Millisecond,
		Sink:         sink,
		OnStart:      func(r *Runner) { started = append(started, r.ID()) },
		OnEnd:        func(r *Runner) { ended <- r.ID() },
	})
	tables := defaultTables(t)

	runner, err := m.Start(Config{ID: "live", ScenarioID: "corporate_gala", Difficulty: game.DifficultyNormal, Tables: tables})
	if err != nil {
		t.Fatalf("Start error = %v", err)
	}
	if _, err := m.Start(Config{ScenarioID: "corporate_gala", Tables: tables}); !errors.Is(err, ErrTooManySessions) {
		t.Errorf("error = %v, expected ErrTooManySessions", err)
	}

	if len(started) != 1 || started[0] != "live" {
		t.Errorf("OnStart calls = %v", started)
	}

	got, err := m.Get("live")
	if err != nil || got != runner {
		t.Fatalf("Get = %v, %v", got, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := runner.MoveFader(ctx, game.SystemLights, 70); err != nil {
		t.Fatalf("MoveFader error = %v", err)
	}
	if v := runner.Snapshot().Systems[game.SystemLights].FaderValue; v < 60 {
		t.Errorf("snapshot fader = %v, expected the move to be visible", v)
	}
	if _, err := runner.ResolveEvent(ctx, "missing", "x", nil); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("error = %v, expected ErrEventNotFound", err)
	}

	if err := m.Stop("live"); err != nil {
		t.Fatalf("Stop error = %v", err)
	}
	select {
	case id := <-ended:
		if id != "live" {
			t.Errorf("OnEnd id = %s", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("OnEnd was not called")
	}
	if _, err := m.Get("live"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, expected ErrSessionNotFound", err)
	}
	if err := runner.MoveFader(ctx, game.SystemLights, 50); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("error = %v, expected ErrSessionEnded", err)
	}

	if err := m.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown error = %v", err)
	}
	if _, err := m.Start(Config{ScenarioID: "corporate_gala", Tables: tables}); err == nil {
		t.Error("Start after Shutdown should fail")
	}
}

func TestChannelSink_DropsWhenFull(t *testing.T) {
	sink := NewChannelSink(1)
	sink.Publish(Outcome{Kind: KindTick})
	sink.Publish(Outcome{Kind: KindTick})

	if sink.Dropped() != 1 {
		t.Errorf("dropped = %d, expected 1", sink.Dropped())
	}
	if o := <-sink.C(); o.Kind != KindTick {
		t.Errorf("outcome = %+v", o)
	}
}
