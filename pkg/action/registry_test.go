package action

import (
	"errors"
	"testing"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	for _, id := range []string{"notice-warning", "unlock-from-trigger", "grant-win-bonus"} {
		if err := registry.Register(&scriptedAction{id: id}); err != nil {
			t.Fatalf("Register(%s) error = %v", id, err)
		}
	}

	if err := registry.Register(&scriptedAction{id: "notice-warning"}); err == nil {
		t.Error("expected an error for a duplicate id")
	}
	if err := registry.Register(&scriptedAction{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Register() with no id error = %v, expected ErrInvalidConfig", err)
	}

	if registry.Count() != 3 {
		t.Errorf("Count() = %d, expected 3", registry.Count())
	}
	if !registry.Has("grant-win-bonus") || registry.Has("record-high-score") {
		t.Error("Has() disagrees with what was registered")
	}
	if registry.Get("record-high-score") != nil {
		t.Error("Get() of an unknown id should be nil")
	}

	all := registry.GetAll()
	for i, want := range []string{"notice-warning", "unlock-from-trigger", "grant-win-bonus"} {
		if all[i].ID() != want {
			t.Errorf("GetAll()[%d] = %s, expected %s (registration order)", i, all[i].ID(), want)
		}
	}
}

func TestActionConfig_Parameters(t *testing.T) {
	config := ActionConfig{
		Parameters: map[string]interface{}{
			"points":     float64(50),
			"fractional": 2.5,
			"title":      "Achievement unlocked",
			"level":      7,
		},
	}

	if got := config.GetParameterInt("points", 0); got != 50 {
		t.Errorf("points = %d, expected 50", got)
	}
	if got := config.GetParameterInt("fractional", -1); got != -1 {
		t.Errorf("fractional = %d, expected the default", got)
	}
	if got := config.GetParameterInt("missing", 3); got != 3 {
		t.Errorf("missing = %d, expected 3", got)
	}
	if got := config.GetParameterString("title", ""); got != "Achievement unlocked" {
		t.Errorf("title = %q", got)
	}
	if got := config.GetParameterString("level", "info"); got != "info" {
		t.Errorf("non-string level = %q, expected the default", got)
	}
}

func TestRetryConfig_Validate(t *testing.T) {
	var none *RetryConfig
	if err := none.Validate(); err != nil {
		t.Errorf("nil retry error = %v", err)
	}
	if none.attempts() != 1 {
		t.Errorf("nil retry attempts = %d, expected 1", none.attempts())
	}

	tests := []struct {
		retry RetryConfig
		ok    bool
	}{
		{RetryConfig{MaxAttempts: 1}, true},
		{RetryConfig{MaxAttempts: 3, Backoff: BackoffConstant}, true},
		{RetryConfig{MaxAttempts: 3, Backoff: BackoffExponential}, true},
		{RetryConfig{MaxAttempts: 0}, false},
		{RetryConfig{MaxAttempts: 2, Delay: -1}, false},
		{RetryConfig{MaxAttempts: 2, Backoff: "linear"}, false},
	}
	for _, tt := range tests {
		err := tt.retry.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("Validate(%+v) error = %v, expected ok=%v", tt.retry, err, tt.ok)
		}
	}
}
