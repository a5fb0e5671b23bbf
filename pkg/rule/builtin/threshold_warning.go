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
	// ThresholdWarningRuleID is the identifier for the early warning rule
	ThresholdWarningRuleID = "threshold_warning"

	// DefaultWarningCooldown is how long a warning stays quiet after firing
	DefaultWarningCooldown = 20 * time.Second
)

// Metrics a threshold warning can watch.
const (
	MetricStress       = "stress"
	MetricBudget       = "budget"
	MetricHealth       = "health"
	MetricInterest     = "interest"
	MetricSatisfaction = "satisfaction"
)

// ThresholdWarningRule raises an early warning when a session meter crosses a
// threshold. Stress warns above the threshold, every other metric below it,
// unless "direction" says otherwise.
type ThresholdWarningRule struct {
	config    rule.RuleConfig
	metric    string
	threshold float64
	above     bool
	message   string
	cooldown  time.Duration
	gate      *rule.Gate
}

// NewThresholdWarningRule creates a new threshold warning rule.
func NewThresholdWarningRule(config rule.RuleConfig) (*ThresholdWarningRule, error) {
	metric := config.GetString("metric", MetricStress)
	switch metric {
	case MetricStress, MetricBudget, MetricHealth, MetricInterest, MetricSatisfaction:
	default:
		return nil, fmt.Errorf("unknown metric %q", metric)
	}

	above := metric == MetricStress
	switch config.GetString("direction", "") {
	case "above":
		above = true
	case "below":
		above = false
	case "":
	default:
		return nil, fmt.Errorf("direction must be above or below")
	}

	r := &ThresholdWarningRule{
		config:    config,
		metric:    metric,
		threshold: config.GetFloat("threshold", 80),
		above:     above,
		message:   config.GetString("message", ""),
		cooldown:  config.CooldownDuration(DefaultWarningCooldown),
		gate:      rule.NewGate(time.Hour),
	}

	logrus.Infof("creating threshold warning rule: metric=%s, threshold=%.1f, above=%v",
		r.metric, r.threshold, r.above)

	return r, nil
}

// ID returns the rule identifier.
func (r *ThresholdWarningRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *ThresholdWarningRule) Name() string {
	return "Early Warning"
}

// SignalTypes returns the signal types this rule handles.
func (r *ThresholdWarningRule) SignalTypes() []string {
	return []string{signalBuiltin.TypeTick}
}

// Config returns the rule configuration.
func (r *ThresholdWarningRule) Config() rule.RuleConfig {
	return r.config
}

// Evaluate checks the watched meter against the threshold.
func (r *ThresholdWarningRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	pressure, ok := sig.(*signalBuiltin.PressureSignal)
	if !ok {
		return false, nil, fmt.Errorf("expected PressureSignal, got %T", sig)
	}

	value := r.read(pressure)
	crossed := value < r.threshold
	if r.above {
		crossed = value >= r.threshold
	}
	if !crossed {
		return false, nil, nil
	}

	scope := sig.SessionID()
	if r.config.CooldownScope() == rule.CooldownScopePlayer {
		scope = sig.PlayerID()
	}
	if !r.gate.Allow(rule.GateKey(scope, r.ID()), sig.Timestamp(), r.cooldown) {
		return false, nil, nil
	}

	message := r.message
	if message == "" {
		message = fmt.Sprintf("%s at %.0f", r.metric, value)
	}

	trigger := rule.NewTrigger(r.ID(), sig, "Warning threshold crossed", r.config.Priority)
	trigger.Metadata["metric"] = r.metric
	trigger.Metadata["value"] = value
	trigger.Metadata["threshold"] = r.threshold
	trigger.Metadata["message"] = message
	trigger.Metadata["level"] = "warning"

	logrus.Debugf("threshold warning %s for session %s: %s=%.1f",
		r.ID(), sig.SessionID(), r.metric, value)

	return true, trigger, nil
}

func (r *ThresholdWarningRule) read(p *signalBuiltin.PressureSignal) float64 {
	switch r.metric {
	case MetricBudget:
		return p.Stats.Budget
	case MetricHealth:
		return p.Systems.MinHealth()
	case MetricInterest:
		return p.Stats.PublicInterest
	case MetricSatisfaction:
		return p.Stats.ClientSatisfaction
	default:
		return p.Stats.Stress
	}
}
