package bootstrap

import (
	"errors"
	"testing"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/action"
	"github.com/russofg/event-chaos-sub000/pkg/pipeline"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/service"
	"github.com/russofg/event-chaos-sub000/pkg/session"
)

func TestBuildDirectorPipeline_ShippedConfig(t *testing.T) {
	cfg, err := pipeline.LoadConfig("../../config/pipeline.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	manager, err := BuildDirectorPipeline(cfg, service.NewMemoryStore(), nil)
	if err != nil {
		t.Fatalf("BuildDirectorPipeline() error = %v", err)
	}

	for _, kind := range []session.Kind{session.KindTick, session.KindEventResolved, session.KindSessionEnded} {
		if !manager.Wants(kind) {
			t.Errorf("pipeline should want %s", kind)
		}
	}
	if manager.Wants(session.KindMissionStarted) {
		t.Error("no shipped rule listens to mission_started")
	}
}

func TestBuildDirectorPipeline_DisabledActionStillMapped(t *testing.T) {
	cfg := &pipeline.Config{
		Rules: []pipeline.RuleConfig{{
			ID: "high-scores", Type: "scenario_victory", Enabled: true,
			Actions: []string{"record-high-score"},
		}},
		Actions: []pipeline.ActionConfig{{ID: "record-high-score", Type: "record_high_score"}},
	}

	_, err := BuildDirectorPipeline(cfg, service.NewMemoryStore(), nil)
	if !errors.Is(err, pipeline.ErrWiring) {
		t.Errorf("BuildDirectorPipeline() error = %v, expected ErrWiring", err)
	}
}

func TestInitSignalProcessor_RegistersMappers(t *testing.T) {
	processor := InitSignalProcessor(service.NewMemoryStore())
	if processor.GetMapperRegistry().Count() == 0 {
		t.Error("expected builtin mappers to be registered")
	}
}

func TestConvertConfigs(t *testing.T) {
	cooldown := &rule.CooldownConfig{Scope: rule.CooldownScopePlayer}
	rules := convertRuleConfigs([]pipeline.RuleConfig{{
		ID: "podium", Name: "Leaderboard podium", Type: "leaderboard_podium",
		Enabled: true, Priority: 7, Cooldown: cooldown,
	}})
	if len(rules) != 1 || rules[0].Priority != 7 || rules[0].Name != "Leaderboard podium" || rules[0].Cooldown != cooldown {
		t.Errorf("rule fields not carried over: %+v", rules)
	}

	retry := &action.RetryConfig{MaxAttempts: 3, Delay: 100 * time.Millisecond, Backoff: action.BackoffExponential}
	actions := convertActionConfigs([]pipeline.ActionConfig{{
		ID: "record-high-score", Name: "High score", Type: "record_high_score", Enabled: true, Retry: retry,
	}})
	if len(actions) != 1 || actions[0].Retry != retry || actions[0].Name != "High score" {
		t.Errorf("action fields not carried over: %+v", actions)
	}
}
