package builtin

import (
	"context"
	"fmt"

	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
	signalBuiltin "github.com/russofg/event-chaos-sub000/pkg/signal/builtin"
	"github.com/sirupsen/logrus"
)

// ScenarioVictoryRuleID is the identifier for the scenario victory rule
const ScenarioVictoryRuleID = "scenario_victory"

// ScenarioVictoryRule fires when a session is won and every configured gate
// holds: scenario, difficulty, mode, minimum score and a flawless run.
type ScenarioVictoryRule struct {
	config        rule.RuleConfig
	scenarioID    string
	difficulty    game.Difficulty
	mode          game.GameMode
	minScore      int
	flawless      bool
	achievementID string
}

// NewScenarioVictoryRule creates a new scenario victory rule.
func NewScenarioVictoryRule(config rule.RuleConfig) (*ScenarioVictoryRule, error) {
	r := &ScenarioVictoryRule{
		config:        config,
		scenarioID:    config.GetString("scenario_id", ""),
		difficulty:    game.Difficulty(config.GetString("difficulty", "")),
		mode:          game.GameMode(config.GetString("mode", "")),
		minScore:      config.GetInt("min_score", 0),
		flawless:      config.GetBool("flawless", false),
		achievementID: config.GetString("achievement_id", ""),
	}
	if r.difficulty != "" && !r.difficulty.Valid() {
		return nil, fmt.Errorf("unknown difficulty %q", r.difficulty)
	}
	if r.mode != "" && !r.mode.Valid() {
		return nil, fmt.Errorf("unknown mode %q", r.mode)
	}

	logrus.Infof("creating scenario victory rule: scenario=%q, difficulty=%q, flawless=%v",
		r.scenarioID, r.difficulty, r.flawless)

	return r, nil
}

// ID returns the rule identifier.
func (r *ScenarioVictoryRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *ScenarioVictoryRule) Name() string {
	return "Scenario Victory"
}

// SignalTypes returns the signal types this rule handles.
func (r *ScenarioVictoryRule) SignalTypes() []string {
	return []string{signalBuiltin.TypeSessionEnded}
}

// Config returns the rule configuration.
func (r *ScenarioVictoryRule) Config() rule.RuleConfig {
	return r.config
}

// Evaluate checks the session result against the configured gates.
func (r *ScenarioVictoryRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	end, ok := sig.(*signalBuiltin.SessionEndSignal)
	if !ok {
		return false, nil, fmt.Errorf("expected SessionEndSignal, got %T", sig)
	}

	if !end.Victory() {
		return false, nil, nil
	}
	scenarioID := sig.Context().ScenarioID
	if r.scenarioID != "" && r.scenarioID != scenarioID {
		return false, nil, nil
	}
	if r.difficulty != "" && r.difficulty != end.Difficulty {
		return false, nil, nil
	}
	if r.mode != "" && r.mode != end.Mode {
		return false, nil, nil
	}
	if end.Score < r.minScore {
		return false, nil, nil
	}
	if r.flawless && !end.Flawless() {
		return false, nil, nil
	}
	if r.achievementID != "" && sig.Context().HasAchievement(r.achievementID) {
		return false, nil, nil
	}

	trigger := rule.NewTrigger(r.ID(), sig, "Scenario won", r.config.Priority)
	trigger.Metadata["scenario_id"] = scenarioID
	trigger.Metadata["score"] = end.Score
	if r.achievementID != "" {
		trigger.Metadata["achievement_id"] = r.achievementID
	}

	logrus.Infof("scenario victory rule %s triggered for player %s: scenario=%s, score=%d",
		r.ID(), sig.PlayerID(), scenarioID, end.Score)

	return true, trigger, nil
}
