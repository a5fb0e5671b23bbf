package rule

import (
	"testing"
	"time"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	rules := []*fakeRule{
		{id: "stress-warning", types: []string{"tick"}, priority: 10},
		{id: "clean-streak", types: []string{"event_resolved"}},
		{id: "high-scores", types: []string{"session_ended"}, priority: 100},
		{id: "narrative", types: []string{"tick", "event_resolved"}, priority: 10},
		{id: "audit"},
	}
	for _, r := range rules {
		if err := registry.Register(r); err != nil {
			t.Fatalf("Register(%s) error = %v", r.id, err)
		}
	}

	if err := registry.Register(&fakeRule{id: "audit"}); err == nil {
		t.Error("expected an error for a duplicate id")
	}
	if err := registry.Register(&fakeRule{}); err == nil {
		t.Error("expected an error for a missing id")
	}
	if registry.Count() != 5 {
		t.Errorf("Count() = %d, expected 5", registry.Count())
	}
	if registry.Get("clean-streak") == nil || registry.Get("podium") != nil {
		t.Error("Get() disagrees with what was registered")
	}

	tests := []struct {
		signalType string
		want       []string
	}{
		{"tick", []string{"narrative", "stress-warning", "audit"}},
		{"event_resolved", []string{"narrative", "audit", "clean-streak"}},
		{"session_ended", []string{"high-scores", "audit"}},
		{"mission_started", []string{"audit"}},
	}
	for _, tt := range tests {
		got := registry.GetBySignalType(tt.signalType)
		if len(got) != len(tt.want) {
			t.Errorf("GetBySignalType(%s) returned %d rules, expected %v", tt.signalType, len(got), tt.want)
			continue
		}
		for i, r := range got {
			if r.ID() != tt.want[i] {
				t.Errorf("GetBySignalType(%s)[%d] = %s, expected %s", tt.signalType, i, r.ID(), tt.want[i])
			}
		}
	}

	all := registry.GetAll()
	if len(all) != 5 || all[0].ID() != "high-scores" {
		t.Errorf("GetAll() should be priority ordered, got first %s", all[0].ID())
	}
}

func TestRuleConfig_Parameters(t *testing.T) {
	config := RuleConfig{
		Parameters: map[string]interface{}{
			"threshold": 85,
			"top":       3.0,
			"fraction":  2.5,
			"combo":     "12",
			"metric":    "stress",
			"flawless":  true,
			"beats": []interface{}{
				map[string]interface{}{"id": "roadie_rumour"},
				"not a beat",
				map[string]interface{}{"id": "sponsor_visit"},
			},
		},
	}

	if got := config.GetFloat("threshold", 0); got != 85 {
		t.Errorf("GetFloat(threshold) = %v", got)
	}
	if got := config.GetInt("top", 0); got != 3 {
		t.Errorf("GetInt(top) = %d", got)
	}
	if got := config.GetInt("fraction", 7); got != 7 {
		t.Errorf("GetInt(fraction) = %d, expected the default", got)
	}
	if got := config.GetInt("combo", 0); got != 12 {
		t.Errorf("GetInt(combo) = %d", got)
	}
	if got := config.GetString("metric", ""); got != "stress" {
		t.Errorf("GetString(metric) = %q", got)
	}
	if got := config.GetString("direction", "above"); got != "above" {
		t.Errorf("GetString(direction) = %q", got)
	}
	if !config.GetBool("flawless", false) || config.GetBool("missing", false) {
		t.Error("GetBool disagrees with the parameters")
	}
	if beats := config.GetList("beats"); len(beats) != 2 {
		t.Errorf("GetList(beats) returned %d entries, expected 2", len(beats))
	}
}

func TestRuleConfig_Cooldown(t *testing.T) {
	config := RuleConfig{}
	if got := config.CooldownDuration(20 * time.Second); got != 20*time.Second {
		t.Errorf("CooldownDuration() = %v, expected the default", got)
	}
	if got := config.CooldownScope(); got != CooldownScopeSession {
		t.Errorf("CooldownScope() = %s", got)
	}

	config.Cooldown = &CooldownConfig{Duration: time.Minute, Scope: CooldownScopePlayer}
	if got := config.CooldownDuration(20 * time.Second); got != time.Minute {
		t.Errorf("CooldownDuration() = %v", got)
	}
	if got := config.CooldownScope(); got != CooldownScopePlayer {
		t.Errorf("CooldownScope() = %s", got)
	}
}
