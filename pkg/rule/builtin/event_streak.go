package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
	signalBuiltin "github.com/russofg/event-chaos-sub000/pkg/signal/builtin"
	"github.com/sirupsen/logrus"
)

const (
	// EventStreakRuleID is the identifier for the success streak rule
	EventStreakRuleID = "event_streak"

	// DefaultEventStreakThreshold is the default number of consecutive successes to trigger
	DefaultEventStreakThreshold = 5
)

// EventStreakRule fires once per session when the player resolves enough
// incidents in a row.
type EventStreakRule struct {
	config        rule.RuleConfig
	threshold     int
	achievementID string
	gate          *rule.Gate
}

// NewEventStreakRule creates a new event streak rule.
func NewEventStreakRule(config rule.RuleConfig) *EventStreakRule {
	threshold := config.GetInt("threshold", DefaultEventStreakThreshold)

	logrus.Infof("creating event streak rule with threshold=%d", threshold)

	return &EventStreakRule{
		config:        config,
		threshold:     threshold,
		achievementID: config.GetString("achievement_id", ""),
		gate:          rule.NewGate(6 * time.Hour),
	}
}

// ID returns the rule identifier.
func (r *EventStreakRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *EventStreakRule) Name() string {
	return "Event Streak"
}

// SignalTypes returns the signal types this rule handles.
func (r *EventStreakRule) SignalTypes() []string {
	return []string{signalBuiltin.TypeEventResolved}
}

// Config returns the rule configuration.
func (r *EventStreakRule) Config() rule.RuleConfig {
	return r.config
}

// Evaluate checks if the success streak has reached the threshold.
func (r *EventStreakRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	res, ok := sig.(*signalBuiltin.ResolutionSignal)
	if !ok {
		return false, nil, fmt.Errorf("expected ResolutionSignal, got %T", sig)
	}

	logrus.Debugf("evaluating event streak for player %s: streak=%d, threshold=%d",
		sig.PlayerID(), res.EventStreak, r.threshold)

	if !res.Success || res.EventStreak < r.threshold {
		return false, nil, nil
	}
	if r.achievementID != "" && sig.Context().HasAchievement(r.achievementID) {
		return false, nil, nil
	}
	if !r.gate.Allow(rule.GateKey(sig.SessionID(), r.ID()), sig.Timestamp(), 0) {
		return false, nil, nil
	}

	trigger := rule.NewTrigger(r.ID(), sig, "Event streak threshold reached", r.config.Priority)
	trigger.Metadata["event_streak"] = res.EventStreak
	trigger.Metadata["threshold"] = r.threshold
	if r.achievementID != "" {
		trigger.Metadata["achievement_id"] = r.achievementID
	}

	logrus.Infof("event streak rule triggered for player %s: streak=%d", sig.PlayerID(), res.EventStreak)

	return true, trigger, nil
}
