package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/rule"
)

const stressDoc = `
settings:
  queue_size: 256
rules:
  - id: stress-warning
    type: threshold_warning
    enabled: true
    priority: 20
    actions: [notice-warning]
    parameters:
      threshold: ${STRESS_THRESHOLD:3}
    cooldown:
      duration: 30s
      scope: player
  - id: hot-hands
    type: event_streak
    enabled: true
    parameters:
      streak: 5
actions:
  - id: notice-warning
    type: publish_notice
    enabled: true
    parameters:
      level: warning
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(stressDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Settings.QueueSize != 256 {
		t.Errorf("queue_size = %d, expected 256", cfg.Settings.QueueSize)
	}
	if len(cfg.Rules) != 2 || len(cfg.Actions) != 1 {
		t.Fatalf("got %d rules and %d actions", len(cfg.Rules), len(cfg.Actions))
	}

	stress := cfg.Rules[0]
	if stress.ID != "stress-warning" || stress.Type != "threshold_warning" || !stress.Enabled || stress.Priority != 20 {
		t.Errorf("stress rule = %+v", stress)
	}
	if cd := stress.Cooldown; cd == nil || cd.Duration != 30*time.Second || cd.Scope != rule.CooldownScopePlayer {
		t.Errorf("cooldown = %+v, expected 30s per player", cd)
	}
	if cfg.Actions[0].Parameters["level"] != "warning" {
		t.Errorf("action parameters = %v", cfg.Actions[0].Parameters)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig() error = %v, expected os.ErrNotExist", err)
	}
}

func TestParseConfig_EnvExpansion(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{name: "default when unset", want: 3},
		{name: "environment wins", env: "10", want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STRESS_THRESHOLD", tt.env)

			cfg, err := ParseConfig([]byte(stressDoc))
			if err != nil {
				t.Fatalf("ParseConfig() error = %v", err)
			}
			if got, ok := cfg.Rules[0].Parameters["threshold"].(int); !ok || got != tt.want {
				t.Errorf("threshold = %v (%T), expected %d", cfg.Rules[0].Parameters["threshold"], cfg.Rules[0].Parameters["threshold"], tt.want)
			}
		})
	}
}

func TestParseConfig_BadYAML(t *testing.T) {
	if _, err := ParseConfig([]byte("rules: [")); err == nil {
		t.Error("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name: "valid",
			config: Config{
				Rules:   []RuleConfig{{ID: "r1", Type: "threshold_warning", Actions: []string{"a1"}}},
				Actions: []ActionConfig{{ID: "a1", Type: "publish_notice"}},
			},
		},
		{
			name:    "negative queue",
			config:  Config{Settings: Settings{QueueSize: -1}},
			wantErr: "queue_size",
		},
		{
			name:    "rule without id",
			config:  Config{Rules: []RuleConfig{{Type: "threshold_warning"}}},
			wantErr: "rules[0] has no id",
		},
		{
			name:    "rule without type",
			config:  Config{Rules: []RuleConfig{{ID: "r1"}}},
			wantErr: "rule r1 has no type",
		},
		{
			name: "duplicate rule",
			config: Config{Rules: []RuleConfig{
				{ID: "dup", Type: "threshold_warning"},
				{ID: "dup", Type: "event_streak"},
			}},
			wantErr: "rule dup is declared twice",
		},
		{
			name: "duplicate action",
			config: Config{Actions: []ActionConfig{
				{ID: "dup", Type: "unlock_achievement"},
				{ID: "dup", Type: "publish_notice"},
			}},
			wantErr: "action dup is declared twice",
		},
		{
			name: "unknown cooldown scope",
			config: Config{Rules: []RuleConfig{
				{ID: "r1", Type: "threshold_warning", Cooldown: &rule.CooldownConfig{Duration: time.Second, Scope: "galaxy"}},
			}},
			wantErr: `cooldown scope "galaxy"`,
		},
		{
			name: "negative cooldown",
			config: Config{Rules: []RuleConfig{
				{ID: "r1", Type: "threshold_warning", Cooldown: &rule.CooldownConfig{Duration: -time.Second, Scope: rule.CooldownScopeSession}},
			}},
			wantErr: "negative cooldown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() error = %v, expected ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, expected it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Config{
		Settings: Settings{QueueSize: -4},
		Rules:    []RuleConfig{{ID: "r1", Actions: []string{"ghost"}}},
		Actions:  []ActionConfig{{ID: "a1"}},
	}

	err := cfg.Validate()
	for _, want := range []string{"queue_size", "rule r1 has no type", "undeclared action ghost", "action a1 has no type"} {
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error = %v, expected it to mention %q", err, want)
		}
	}
}
