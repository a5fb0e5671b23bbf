package builtin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/action"
	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/service/mock"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
)

var testTime = time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

func newTrigger(ruleID string, metadata map[string]interface{}) (*rule.Trigger, *signal.PlayerContext) {
	c := career.New()
	playerCtx := &signal.PlayerContext{
		PlayerID:   "test-player",
		SessionID:  "test-session",
		ScenarioID: "rock_festival",
		Career:     &c,
	}
	sig := signal.NewBaseSignal("session_ended", testTime, nil, playerCtx)
	trigger := rule.NewTrigger(ruleID, sig, "test reason", 10)
	for k, v := range metadata {
		trigger.WithMetadata(k, v)
	}
	return trigger, playerCtx
}

func TestUnlockAchievementAction_Execute(t *testing.T) {
	store := mock.NewCareerStore()
	config := action.ActionConfig{
		ID:      "unlock",
		Type:    UnlockAchievementActionID,
		Enabled: true,
		Parameters: map[string]interface{}{
			"bonus_points": 3,
		},
	}

	act, err := NewUnlockAchievementAction(config, store)
	if err != nil {
		t.Fatalf("NewUnlockAchievementAction() error = %v", err)
	}

	trigger, playerCtx := newTrigger("hot_hands", map[string]interface{}{"achievement_id": "hot_hands"})
	if err := act.Execute(context.Background(), trigger, playerCtx); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	stored := store.Careers["test-player"]
	if !stored.HasAchievement("hot_hands") {
		t.Error("Expected achievement to be stored")
	}
	if stored.CareerPoints != 3 {
		t.Errorf("Expected 3 bonus points, got %d", stored.CareerPoints)
	}
	if !playerCtx.Career.HasAchievement("hot_hands") {
		t.Error("Expected player context career to reflect the unlock")
	}

	// Second unlock is a no-op: no extra bonus.
	trigger2, playerCtx2 := newTrigger("hot_hands", map[string]interface{}{"achievement_id": "hot_hands"})
	if err := act.Execute(context.Background(), trigger2, playerCtx2); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := store.Careers["test-player"].CareerPoints; got != 3 {
		t.Errorf("Expected points to stay 3, got %d", got)
	}
}

func TestUnlockAchievementAction_ParameterOverridesMetadata(t *testing.T) {
	store := mock.NewCareerStore()
	act, _ := NewUnlockAchievementAction(action.ActionConfig{
		ID:         "unlock",
		Parameters: map[string]interface{}{"achievement_id": "fixed"},
	}, store)

	trigger, playerCtx := newTrigger("r", map[string]interface{}{"achievement_id": "from_rule"})
	if err := act.Execute(context.Background(), trigger, playerCtx); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	stored := store.Careers["test-player"]
	if !stored.HasAchievement("fixed") || stored.HasAchievement("from_rule") {
		t.Errorf("achievements = %v", stored.UnlockedAchievements)
	}
}

func TestUnlockAchievementAction_NoAchievementID(t *testing.T) {
	act, _ := NewUnlockAchievementAction(action.ActionConfig{ID: "unlock"}, mock.NewCareerStore())

	trigger, playerCtx := newTrigger("r", nil)
	err := act.Execute(context.Background(), trigger, playerCtx)
	if !errors.Is(err, action.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestUnlockAchievementAction_Rollback(t *testing.T) {
	store := mock.NewCareerStore()
	existing := career.New()
	existing.UnlockedAchievements = []string{"veteran"}
	store.Careers["test-player"] = existing

	act, _ := NewUnlockAchievementAction(action.ActionConfig{ID: "unlock"}, store)

	// Rollback of an achievement the player already had must keep it.
	trigger, playerCtx := newTrigger("r", map[string]interface{}{"achievement_id": "veteran"})
	if err := act.Execute(context.Background(), trigger, playerCtx); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if err := act.Rollback(context.Background(), trigger, playerCtx); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if !store.Careers["test-player"].HasAchievement("veteran") {
		t.Error("Expected pre-existing achievement to survive rollback")
	}

	trigger, playerCtx = newTrigger("r", map[string]interface{}{"achievement_id": "flawless"})
	if err := act.Execute(context.Background(), trigger, playerCtx); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if err := act.Rollback(context.Background(), trigger, playerCtx); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if store.Careers["test-player"].HasAchievement("flawless") {
		t.Error("Expected rollback to revoke the new achievement")
	}
}

func TestUnlockAchievementAction_StoreError(t *testing.T) {
	store := mock.NewCareerStore()
	store.Error = errors.New("redis down")
	act, _ := NewUnlockAchievementAction(action.ActionConfig{ID: "unlock"}, store)

	trigger, playerCtx := newTrigger("r", map[string]interface{}{"achievement_id": "x"})
	if err := act.Execute(context.Background(), trigger, playerCtx); err == nil {
		t.Error("Expected store error to propagate")
	}
}

func TestUnlockAchievementAction_TestMode(t *testing.T) {
	act, _ := NewUnlockAchievementAction(action.ActionConfig{ID: "unlock"}, nil)

	trigger, playerCtx := newTrigger("r", map[string]interface{}{"achievement_id": "x"})
	if err := act.Execute(context.Background(), trigger, playerCtx); err != nil {
		t.Errorf("Expected no error in test mode, got %v", err)
	}
}

func TestGrantCareerPointsAction(t *testing.T) {
	store := mock.NewCareerStore()
	act, err := NewGrantCareerPointsAction(action.ActionConfig{
		ID:         "points",
		Parameters: map[string]interface{}{"points": float64(10)},
	}, store)
	if err != nil {
		t.Fatalf("NewGrantCareerPointsAction() error = %v", err)
	}

	trigger, playerCtx := newTrigger("r", nil)
	if err := act.Execute(context.Background(), trigger, playerCtx); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := store.Careers["test-player"].CareerPoints; got != 10 {
		t.Errorf("Expected 10 points, got %d", got)
	}
	if playerCtx.Career.CareerPoints != 10 {
		t.Errorf("Expected context career to show 10 points, got %d", playerCtx.Career.CareerPoints)
	}

	if err := act.Rollback(context.Background(), trigger, playerCtx); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if got := store.Careers["test-player"].CareerPoints; got != 0 {
		t.Errorf("Expected rollback to 0 points, got %d", got)
	}
}

func TestGrantCareerPointsAction_InvalidConfig(t *testing.T) {
	for _, points := range []interface{}{nil, 0, -5, 2.5} {
		params := map[string]interface{}{}
		if points != nil {
			params["points"] = points
		}
		if _, err := NewGrantCareerPointsAction(action.ActionConfig{ID: "p", Parameters: params}, nil); err == nil {
			t.Errorf("points=%v: expected error", points)
		}
	}
}

func TestPublishNoticeAction(t *testing.T) {
	tests := []struct {
		name        string
		params      map[string]interface{}
		metadata    map[string]interface{}
		wantTitle   string
		wantMessage string
		wantLevel   string
	}{
		{
			name:        "metadata",
			metadata:    map[string]interface{}{"message": "Stress is high", "level": "warning", "title": "Careful"},
			wantTitle:   "Careful",
			wantMessage: "Stress is high",
			wantLevel:   "warning",
		},
		{
			name:        "parameters win",
			params:      map[string]interface{}{"message": "Fixed", "level": "achievement"},
			metadata:    map[string]interface{}{"message": "From rule", "level": "info"},
			wantMessage: "Fixed",
			wantLevel:   "achievement",
		},
		{
			name:        "reason fallback",
			wantMessage: "test reason",
			wantLevel:   "info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := &mock.NoticeBoard{}
			act := NewPublishNoticeAction(action.ActionConfig{ID: "notice", Parameters: tt.params}, board)

			trigger, playerCtx := newTrigger("stress_warning", tt.metadata)
			if err := act.Execute(context.Background(), trigger, playerCtx); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if len(board.Notices) != 1 {
				t.Fatalf("Expected 1 notice, got %d", len(board.Notices))
			}

			n := board.Notices[0]
			if n.Title != tt.wantTitle || n.Message != tt.wantMessage || n.Level != tt.wantLevel {
				t.Errorf("notice = %+v", n)
			}
			if n.PlayerID != "test-player" || n.SessionID != "test-session" || n.RuleID != "stress_warning" {
				t.Errorf("notice ids = %+v", n)
			}
			if !n.At.Equal(testTime) {
				t.Errorf("At = %v, expected trigger timestamp", n.At)
			}
		})
	}
}

func TestPublishNoticeAction_Rollback(t *testing.T) {
	act := NewPublishNoticeAction(action.ActionConfig{ID: "notice"}, nil)
	trigger, playerCtx := newTrigger("r", nil)
	if err := act.Rollback(context.Background(), trigger, playerCtx); !errors.Is(err, action.ErrRollbackNotSupported) {
		t.Errorf("Expected ErrRollbackNotSupported, got %v", err)
	}
}

func TestRecordHighScoreAction(t *testing.T) {
	lb := &mock.Leaderboard{}
	act := NewRecordHighScoreAction(action.ActionConfig{ID: "record"}, lb)

	trigger, playerCtx := newTrigger("victory", map[string]interface{}{"score": 1450})
	if err := act.Execute(context.Background(), trigger, playerCtx); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(lb.Submitted) != 1 {
		t.Fatalf("Expected 1 submission, got %d", len(lb.Submitted))
	}
	sub := lb.Submitted[0]
	if sub.ScenarioID != "rock_festival" || sub.PlayerID != "test-player" || sub.Score != 1450 {
		t.Errorf("submission = %+v", sub)
	}
}

func TestRecordHighScoreAction_NoScore(t *testing.T) {
	lb := &mock.Leaderboard{}
	act := NewRecordHighScoreAction(action.ActionConfig{ID: "record"}, lb)

	trigger, playerCtx := newTrigger("victory", nil)
	if err := act.Execute(context.Background(), trigger, playerCtx); err == nil {
		t.Error("Expected error without a score")
	}
	if len(lb.Submitted) != 0 {
		t.Error("Expected no submission")
	}
}
